package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/session"
)

const LoginPath = "/login"

// RequireLogin sends anonymous visitors to the login page with a warning.
// It must run after SessionMiddleware.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)
		state := GetSession(c)

		customerID, ok := state.CustomerID()
		if !ok {
			log.Warn("Anonymous access to protected page", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			state.AddFlash(session.FlashWarning, "Please log in to access this page.")
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}

		log.Debug("Customer authenticated", map[string]interface{}{
			"customer_id": customerID,
		})
		c.Next()
	}
}

// GetCustomerID extracts the logged-in customer's ID from the session.
func GetCustomerID(c *gin.Context) (uint, bool) {
	return GetSession(c).CustomerID()
}
