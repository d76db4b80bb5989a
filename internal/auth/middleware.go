package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Required aborts with 401 unless a valid token is present.
func Required(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization token missing"})
			return
		}
		ident, err := ParseJWT(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token or expired"})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// Optional parses a token when present and continues either way.
func Optional(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if ident, err := ParseJWT(secret, token); err == nil {
				c.Set(identityKey, ident)
			}
		}
		c.Next()
	}
}

// RequireRole gates an endpoint to one role, after Required.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := FromContext(c)
		if ident == nil || ident.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Insufficient role"})
			return
		}
		c.Next()
	}
}

// FromContext returns the authenticated identity, or nil.
func FromContext(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	ident, _ := v.(*Identity)
	return ident
}
