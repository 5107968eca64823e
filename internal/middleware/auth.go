package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextActor    = "actor"
)

var (
	ErrMissingToken = errors.New("missing_authorization_header")
	ErrInvalidToken = errors.New("invalid_token")
)

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (domain.Actor, error)
}

// ======================================================
// JWT
// ======================================================

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTAuthenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTAuthenticator(secret string, ttlHours int) *JWTAuthenticator {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &JWTAuthenticator{
		secret: []byte(secret),
		ttl:    time.Duration(ttlHours) * time.Hour,
		now:    time.Now,
	}
}

// Issue signs a token for user.
func (a *JWTAuthenticator) Issue(user *models.User) (string, error) {
	now := a.now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *JWTAuthenticator) Authenticate(r *http.Request) (domain.Actor, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return domain.Actor{}, ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return domain.Actor{}, ErrInvalidToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return domain.Actor{}, ErrInvalidToken
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok || claims.Subject == "" {
		return domain.Actor{}, ErrInvalidToken
	}

	return domain.Actor{ID: claims.Subject, Role: role}, nil
}

// ======================================================
// Middleware
// ======================================================

type actorKey struct{}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.Authenticate(c.Request)
		if err != nil {
			httperr.Unauthorized(c, err.Error(), "Authentication required.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, actor.ID)
		c.Set(ContextUserRole, string(actor.Role))
		c.Set(ContextActor, actor)
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))

		c.Next()
	}
}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// CurrentActor returns the actor set by AuthMiddleware.
func CurrentActor(c *gin.Context) domain.Actor {
	return c.MustGet(ContextActor).(domain.Actor)
}

// RequireRole rejects actors whose role is not listed.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, httperr.CodeForbidden, "Insufficient role.")
		c.Abort()
	}
}
