package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// UserStore is satisfied by *repository.UserGormRepository.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	ListActiveDoctors(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, changes map[string]any) error
}

// TokenIssuer is satisfied by *middleware.JWTAuthenticator.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// DomainChecker is satisfied by *validators.EmailDomainChecker.
type DomainChecker interface {
	Valid(ctx context.Context, email string) bool
}

type AuthHandler struct {
	users  UserStore
	tokens TokenIssuer
	emails DomainChecker
	audit  AuditSink
	log    logrus.FieldLogger
}

// NewAuthHandler builds the handler. emails may be nil to skip the DNS
// check on registration.
func NewAuthHandler(
	users UserStore,
	tokens TokenIssuer,
	emails DomainChecker,
	audit AuditSink,
	log logrus.FieldLogger,
) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		emails: emails,
		audit:  audit,
		log:    log,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// --------- Handlers ---------

// Register creates a patient account. Doctors and admins are provisioned
// out of band.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if h.emails != nil && !h.emails.Valid(ctx, email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RolePatient,
		Active:       true,
	}

	if err := h.users.Create(ctx, &user); err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.ErrBusiness(httperr.CodeEmailTaken))
			return
		}
		fail(c, h.log, err)
		return
	}

	token, err := h.tokens.Issue(&user)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	writeAudit(h.audit, user.ID, "user_registered", "user", user.ID, nil)

	httpresp.Created(c, authResponse{User: &user, Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.Respond(c, httperr.ErrBusiness(httperr.CodeInvalidCredential))
			return
		}
		fail(c, h.log, err)
		return
	}

	if !user.Active {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeInvalidCredential))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeInvalidCredential))
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}
