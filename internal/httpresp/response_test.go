package httpresp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestList_NilBecomesEmptyArray(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	List[string](c, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())
}

func TestPage_HasMore(t *testing.T) {
	cases := []struct {
		name  string
		page  int
		total int64
		more  bool
	}{
		{"first of three", 1, 5, true},
		{"last partial", 3, 5, false},
		{"exact end", 2, 4, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Page(c, []int{1, 2}, tc.total, tc.page, 2)

			var body PageResponse[int]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.more, body.HasMore)
			assert.Equal(t, tc.total, body.Total)
			assert.Equal(t, tc.page, body.Page)
		})
	}
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, gin.H{"id": "a"})

	assert.Equal(t, http.StatusCreated, w.Code)
}
