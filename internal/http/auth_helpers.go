package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/auth"
)

// AuthTemplateData holds authentication info for templates.
type AuthTemplateData struct {
	LoggedIn      bool   // Whether user is logged in
	Username      string // Current user's username (empty if not logged in)
	CSRFToken     string // CSRF token for forms (empty when CSRF is off)
	CSRFFieldName string
}

const contextKeyAuthTemplateData = "auth_template_data"

// AuthContextMiddleware injects authentication data into Gin context for templates.
// Templates can access auth data via .Auth in the template data.
func AuthContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authData := AuthTemplateData{
			CSRFToken:     auth.GetCSRFToken(c),
			CSRFFieldName: auth.CSRFFieldName,
		}

		if identity := auth.GetIdentity(c); identity != nil {
			authData.LoggedIn = true
			authData.Username = identity.Username
		}

		c.Set(contextKeyAuthTemplateData, authData)
		c.Next()
	}
}

// GetAuthTemplateData retrieves auth data from context for use in templates.
func GetAuthTemplateData(c *gin.Context) AuthTemplateData {
	if data, exists := c.Get(contextKeyAuthTemplateData); exists {
		if authData, ok := data.(AuthTemplateData); ok {
			return authData
		}
	}
	return AuthTemplateData{}
}
