// Package middleware provides request filters and security checks for the application.
// File: middleware/identity.go
package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/juju/errors"

	"footy-stadia/logger"
	"footy-stadia/models"
	"footy-stadia/store"
)

// SessionUserKey is the session value holding the logged-in user's id.
const SessionUserKey = "userID"

const currentUserKey = "currentUser"

// Identity resolves the session's user id to a user record on every request
// and attaches it to the context. A missing or stale id leaves the request
// anonymous.
func Identity(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(SessionUserKey).(string)
		if userID == "" {
			c.Next()
			return
		}

		user, err := s.FindUserByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			c.Set(currentUserKey, user)
		case errors.Is(err, errors.NotFound):
			logger.Warn.Printf("Identity: session user %s no longer exists; dropping it", userID)
			session.Delete(SessionUserKey)
		default:
			logger.Error.Printf("Identity: loading user %s: %v", userID, err)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// LogIn starts a fresh authenticated session for user. The change is written
// by the next SaveSession, which Redirect and the page renderer call.
func LogIn(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Clear()
	session.Set(SessionUserKey, user.ID)
	c.Set(currentUserKey, user)
	logger.Info.Printf("LogIn: user %s authenticated (isAdmin=%v)", user.Username, user.IsAdmin)
}

// LogOut drops everything in the session.
func LogOut(c *gin.Context) {
	sessions.Default(c).Clear()
	c.Set(currentUserKey, (*models.User)(nil))
}

// SaveSession writes pending session changes as a single cookie. It must run
// before the response headers are sent; calling it again without further
// changes is a no-op.
func SaveSession(c *gin.Context) {
	if err := sessions.Default(c).Save(); err != nil {
		logger.Error.Printf("SaveSession: failed to save session: %v", err)
	}
}
