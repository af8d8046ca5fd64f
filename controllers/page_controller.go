// Package controllers file: controllers/page_controller.go
package controllers

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"footy-stadia/logger"
	"footy-stadia/middleware"
)

// render adds the identity and notices every layout needs and renders name.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["currentUser"] = middleware.CurrentUser(c)
	data["notices"] = middleware.GetNotices(c)
	middleware.SaveSession(c)
	c.HTML(status, name, data)
}

// renderError shows the error page with message.
func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{
		"status":  status,
		"message": message,
	})
}

// Landing renders the splash page.
func Landing(c *gin.Context) {
	render(c, http.StatusOK, "landing.html", nil)
}

// Health is used by the load balancer.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.String(http.StatusOK, "OK")
}

// NotFound is the catch-all for unmatched routes.
func NotFound(c *gin.Context) {
	logger.Warn.Printf("NotFound: %s %s", c.Request.Method, c.Request.URL.Path)
	renderError(c, http.StatusNotFound, "Sorry, page not found...What are you doing with your life?")
}

// ------------------- template helpers -------------------

// TemplateFuncs are the helpers available to every view.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"timeAgo": func(t time.Time) string { return TimeAgo(t, time.Now()) },
	}
}

// TimeAgo describes how long before now t was, in the coarse units shown
// next to comments.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 45*time.Second:
		return "a few seconds ago"
	case d < 90*time.Second:
		return "a minute ago"
	case d < 45*time.Minute:
		return fmt.Sprintf("%d minutes ago", int((d+30*time.Second)/time.Minute))
	case d < 90*time.Minute:
		return "an hour ago"
	case d < 22*time.Hour:
		return fmt.Sprintf("%d hours ago", int((d+30*time.Minute)/time.Hour))
	case d < 36*time.Hour:
		return "a day ago"
	case d < 26*24*time.Hour:
		return fmt.Sprintf("%d days ago", int((d+12*time.Hour)/(24*time.Hour)))
	case d < 45*24*time.Hour:
		return "a month ago"
	case d < 320*24*time.Hour:
		return fmt.Sprintf("%d months ago", int(d/(30*24*time.Hour)))
	case d < 548*24*time.Hour:
		return "a year ago"
	default:
		return fmt.Sprintf("%d years ago", int(d/(365*24*time.Hour)))
	}
}
