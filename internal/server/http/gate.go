package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/dsalog/internal/common"
	"github.com/dmitrijs2005/dsalog/internal/server/metrics"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

// ContextUserKey is the gin context key holding the authenticated
// models.PublicUser.
const ContextUserKey = "user"

type userCtxKey struct{}

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user models.PublicUser) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the user attached by Gate.
func UserFromContext(ctx context.Context) (models.PublicUser, bool) {
	user, ok := ctx.Value(userCtxKey{}).(models.PublicUser)
	return user, ok
}

// Gate admits requests carrying a valid session cookie and attaches the
// resolved user to both the gin context and the request context. Every
// rejection gets the same 401 body; store failures are 500s.
func Gate(auth Authenticator, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.SessionCookieName)
		if err != nil || token == "" {
			m.RecordAuth("gate", metrics.OutcomeFailure)
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrorInvalidToken) {
				m.RecordAuth("gate", metrics.OutcomeFailure)
				c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
				return
			}
			m.RecordAuth("gate", metrics.OutcomeError)
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Code: CodeInternal, Message: msgInternal})
			return
		}

		m.RecordAuth("gate", metrics.OutcomeSuccess)
		public := user.Public()
		c.Set(ContextUserKey, public)
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), public))
		c.Next()
	}
}

func currentUser(c *gin.Context) models.PublicUser {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(models.PublicUser); ok {
			return user
		}
	}
	user, _ := UserFromContext(c.Request.Context())
	return user
}
