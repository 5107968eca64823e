package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

type MeHandler struct {
	users UserStore
	log   logrus.FieldLogger
}

func NewMeHandler(users UserStore, log logrus.FieldLogger) *MeHandler {
	return &MeHandler{users: users, log: log}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	user, err := h.users.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.Unauthorized(c, "user_not_found", "Authenticated user no longer exists.")
			return
		}
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone          *string `json:"phone" binding:"omitempty,max=20"`
	Specialization *string `json:"specialization" binding:"omitempty,max=100"`
}

// UpdateMe patches the caller's own profile. Specialization only applies to
// doctors.
func (h *MeHandler) UpdateMe(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	changes := map[string]any{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Phone != nil {
		changes["phone"] = *req.Phone
	}
	if req.Specialization != nil {
		if actor.Role != domain.RoleDoctor {
			httperr.BadRequest(c, httperr.CodeValidation, "only doctors have a specialization")
			return
		}
		changes["specialization"] = *req.Specialization
	}

	ctx := c.Request.Context()
	if len(changes) > 0 {
		if err := h.users.UpdateProfile(ctx, actor.ID, changes); err != nil {
			fail(c, h.log, err)
			return
		}
	}

	user, err := h.users.GetByID(ctx, actor.ID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
