// Package controllers handles user authentication and session management.
// File: controllers/loginHandler.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"footy-stadia/logger"
	"footy-stadia/middleware"
)

// ------------------ login handling ------------------

// ShowLogin renders the login form.
func (ac *AuthController) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", nil)
}

// Login authenticates the user and starts a session.
// If successful, it redirects to `/stadiums`; otherwise back to `/login`
// with a notice that does not reveal which field was wrong.
func (ac *AuthController) Login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Println("Login: Missing username or password")
		middleware.Redirect(c, middleware.NoticeError, "Invalid username or password.", "/login")
		return
	}

	user, err := ac.Accounts.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		logger.Warn.Printf("Login: failed for %q: %v", form.Username, err)
		middleware.Redirect(c, middleware.NoticeError, "Invalid username or password.", "/login")
		return
	}

	middleware.LogIn(c, user)
	middleware.SaveSession(c)
	c.Redirect(http.StatusFound, "/stadiums")
}

// ------------------ logout ------------------

// Logout clears the session.
func (ac *AuthController) Logout(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		logger.Info.Printf("Logout: Logging out user %s", user.Username)
	}
	middleware.LogOut(c)
	middleware.Redirect(c, middleware.NoticeSuccess, "Successfully logged out!", "/stadiums")
}
