package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

// ContextKeyIdentity holds the *Identity of an authenticated request.
const ContextKeyIdentity = "auth_identity"

// Middleware resolves session identities for HTTP requests.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
	}
}

// Handler returns a Gin middleware that attaches the session identity to the
// context. Sessions whose user no longer exists are cleared. It never
// rejects a request; use RequireAuth for that.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := m.sessionManager.Current(c.Request)
		if identity == nil {
			c.Next()
			return
		}

		user, err := m.service.GetUserByID(c.Request.Context(), identity.UserID)
		switch {
		case err == nil:
			identity.Username = user.Username
			c.Set(ContextKeyIdentity, identity)
		case errors.Is(err, catalog.ErrNotFound):
			if err := m.sessionManager.Clear(c.Request); err != nil {
				log.Error().Err(err).Msg("failed to clear stale session")
			}
		default:
			log.Error().Err(err).Uint("user_id", identity.UserID).Msg("failed to resolve session user")
		}

		c.Next()
	}
}

// RequireAuth redirects anonymous requests to redirectTo with a notice.
func (m *Middleware) RequireAuth(redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			m.sessionManager.Flash(c.Request, NoticeDanger, "You need to log in first.")
			c.Redirect(http.StatusSeeOther, redirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from the context.
// Returns nil for anonymous requests.
func GetIdentity(c *gin.Context) *Identity {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if identity, ok := v.(*Identity); ok {
			return identity
		}
	}
	return nil
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 if not authenticated.
func GetUserID(c *gin.Context) uint {
	if identity := GetIdentity(c); identity != nil {
		return identity.UserID
	}
	return 0
}

// IsAuthenticated returns true if the request is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	return GetIdentity(c) != nil
}
