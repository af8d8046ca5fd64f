// Package middleware description is Middleware that checks if the user is an admin.
// file: middleware/admin_required.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"footy-stadia/logger"
)

// AdminRequired is a middleware that checks if the user is an admin.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)

		logger.Debug.Printf("AdminRequired Middleware - user=%v", user != nil)

		if user == nil || !user.IsAdmin {
			logger.Warn.Println("AdminRequired Middleware - Unauthorized attempt blocked")
			Redirect(c, NoticeError, "You need to be an Admin to do that.", "/login")
			c.Abort()
			return
		}

		logger.Debug.Println("AdminRequired Middleware - Passed, continuing request")
		c.Next()
	}
}
