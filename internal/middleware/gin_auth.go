package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Gin context keys set for authenticated requests.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			if p, ok := PrincipalFromContext(r.Context()); ok {
				c.Set(ContextUserID, p.UserID)
				c.Set(ContextEmail, p.Email)
			}
			c.Next()
		})

		auth.RequireAuth(next).ServeHTTP(c.Writer, c.Request)

		// auth middleware answered the request itself
		if !passed {
			c.Abort()
		}
	}
}
