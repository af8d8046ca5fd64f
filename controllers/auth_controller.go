// Package controllers controllers/auth_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"footy-stadia/logger"
	"footy-stadia/middleware"
	"footy-stadia/services"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	Accounts *services.AccountService
	Metrics  services.Metrics
}

// NewAuthController creates an AuthController.
func NewAuthController(accounts *services.AccountService, m services.Metrics) *AuthController {
	if m == nil {
		m = services.NoopMetrics{}
	}
	return &AuthController{Accounts: accounts, Metrics: m}
}

// credentialsForm is shared by the login and register forms.
type credentialsForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ------------------ registration ------------------

// ShowRegister renders the sign up form.
func (ac *AuthController) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", nil)
}

// Register creates an account and logs it in.
//
// The admin flag is granted when the adminCode field is submitted empty.
// A filled-in code, or no field at all, registers a regular user.
func (ac *AuthController) Register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Printf("Register: invalid form: %v", err)
		ac.registerFailed(c)
		return
	}

	adminCode, present := c.GetPostForm("adminCode")
	isAdmin := present && adminCode == ""

	user, err := ac.Accounts.Register(c.Request.Context(), form.Username, form.Password, isAdmin)
	if err != nil {
		logger.Warn.Printf("Register: %q: %v", form.Username, err)
		ac.registerFailed(c)
		return
	}

	middleware.LogIn(c, user)
	ac.Metrics.RecordEvent(services.MetricUserRegistered)
	middleware.Redirect(c, middleware.NoticeSuccess, "Welcome to Footy Stadia "+user.Username, "/stadiums")
}

func (ac *AuthController) registerFailed(c *gin.Context) {
	middleware.AddNoticeNow(c, middleware.NoticeError, "Try something else...")
	render(c, http.StatusBadRequest, "register.html", gin.H{"username": c.PostForm("username")})
}
