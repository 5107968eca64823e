package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]int{
		CodeValidation:        http.StatusBadRequest,
		CodeDoctorUnavailable: http.StatusBadRequest,
		CodeSlotTaken:         http.StatusBadRequest,
		CodeInvalidTransition: http.StatusBadRequest,
		CodeForbidden:         http.StatusForbidden,
		CodeNotFound:          http.StatusNotFound,
		CodeDoctorNotFound:    http.StatusNotFound,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFor(code), code)
	}
}

func TestIsBusiness_Wrapped(t *testing.T) {
	err := fmt.Errorf("booking: %w", ErrBusiness(CodeSlotTaken))
	assert.True(t, IsBusiness(err, CodeSlotTaken))
	assert.False(t, IsBusiness(err, CodeForbidden))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsExclusionConflict(&pgconn.PgError{Code: "23P01"}))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("business error keeps code", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		handled := Respond(c, ErrBusinessMsg(CodeDoctorUnavailable, "marked unavailable"))
		require.True(t, handled)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body HTTPError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, CodeDoctorUnavailable, body.Code)
		assert.Equal(t, "marked unavailable", body.Message)
	})

	t.Run("unknown error is generic 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		handled := Respond(c, errors.New("dial tcp: connection refused"))
		assert.False(t, handled)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
