// File: middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"footy-stadia/logger"
)

// -------------- authentication middleware --------------

// AuthRequired is a middleware that ensures the user is logged in.
// How it works:
// - Reads the identity attached by Identity.
// - If there is none, stores an error notice, redirects to "/login" and aborts.
// - Otherwise, the request proceeds.
// Usage:
//
//	router.GET("/stadiums/:id/comments/new", middleware.AuthRequired, handler)
func AuthRequired(c *gin.Context) {
	if CurrentUser(c) == nil {
		logger.Warn.Printf("AuthRequired: anonymous request to %s %s", c.Request.Method, c.Request.URL.Path)
		Redirect(c, NoticeError, "You need to be logged in to do that.", "/login")
		c.Abort()
		return
	}

	logger.Debug.Println("[AuthRequired] User authenticated - proceeding with request")
	c.Next()
}
