// router.go
package main

import (
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"footy-stadia/config"
	"footy-stadia/controllers"
	"footy-stadia/middleware"
	"footy-stadia/services"
	"footy-stadia/store"
)

const sessionName = "footy-stadia"

// deps are the collaborators the route table is built from.
type deps struct {
	Store    store.Store
	Geocoder services.Geocoder
	Metrics  services.Metrics
	Accounts *services.AccountService
}

// setupRouter builds the gin engine with sessions, views and every route.
func setupRouter(cfg *config.Config, d deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Initialize session store
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, sessionStore))
	router.Use(middleware.Identity(d.Store), middleware.LoadNotices)

	// Load HTML templates
	router.SetFuncMap(controllers.TemplateFuncs())
	router.LoadHTMLGlob(filepath.Join(cfg.TemplatesDir, "*.html"))

	// Serve static files under /static
	router.Static("/static", cfg.StaticDir)

	stadiums := controllers.NewStadiumController(d.Store, d.Geocoder, d.Metrics, cfg.ApplicationURL)
	comments := controllers.NewCommentController(d.Store, d.Metrics)
	auth := controllers.NewAuthController(d.Accounts, d.Metrics)

	stadiumOwner := middleware.StadiumOwnerOrAdmin(d.Store)
	commentOwner := middleware.CommentOwnerOrAdmin(d.Store)

	// Public routes
	router.GET("/", controllers.Landing)
	router.GET("/health", controllers.Health)
	router.GET("/register", auth.ShowRegister)
	router.POST("/register", auth.Register)
	router.GET("/login", auth.ShowLogin)
	router.POST("/login", auth.Login)
	router.GET("/logout", auth.Logout)

	// Stadiums
	s := router.Group("/stadiums")
	{
		s.GET("", stadiums.Index)
		s.POST("", middleware.AdminRequired(), stadiums.Create)
		s.GET("/new", middleware.AdminRequired(), stadiums.New)
		s.GET("/:id", stadiums.Show)
		s.GET("/:id/qrcode", stadiums.QRCode)
		s.GET("/:id/edit", stadiumOwner, stadiums.Edit)
		s.PUT("/:id", stadiumOwner, stadiums.Update)
		s.DELETE("/:id", stadiumOwner, stadiums.Delete)
	}

	// Comments
	c := router.Group("/stadiums/:id/comments")
	{
		c.GET("/new", middleware.AuthRequired, comments.New)
		c.POST("", middleware.AuthRequired, comments.Create)
		c.GET("/:comment_id/edit", commentOwner, comments.Edit)
		c.PUT("/:comment_id", commentOwner, comments.Update)
		c.DELETE("/:comment_id", commentOwner, comments.Delete)
	}

	router.NoRoute(controllers.NotFound)
	return router
}
