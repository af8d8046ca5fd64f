// Package controllers file: controllers/comment_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"

	"footy-stadia/logger"
	"footy-stadia/middleware"
	"footy-stadia/models"
	"footy-stadia/services"
	"footy-stadia/store"
)

// commentForm only carries the text; the author always comes from the session.
type commentForm struct {
	Text string `form:"text" binding:"required"`
}

// CommentController serves /stadiums/:id/comments.
type CommentController struct {
	Store   store.Store
	Metrics services.Metrics
}

// NewCommentController creates a CommentController.
func NewCommentController(s store.Store, m services.Metrics) *CommentController {
	if m == nil {
		m = services.NoopMetrics{}
	}
	return &CommentController{Store: s, Metrics: m}
}

// New renders the comment form for a stadium.
func (cc *CommentController) New(c *gin.Context) {
	stadium, err := cc.Store.FindStadium(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, errors.NotFound) {
			logger.Error.Printf("Comment New: loading stadium %s: %v", c.Param("id"), err)
		}
		middleware.Redirect(c, middleware.NoticeError, "Stadium not found", "/stadiums")
		return
	}
	render(c, http.StatusOK, "comments_new.html", gin.H{"stadium": stadium})
}

// Create adds a comment by the current user to a stadium.
func (cc *CommentController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	stadiumID := c.Param("id")

	stadium, err := cc.Store.FindStadium(ctx, stadiumID)
	if err != nil {
		logger.Warn.Printf("Comment Create: loading stadium %s: %v", stadiumID, err)
		middleware.Redirect(c, middleware.NoticeError, "Something went wrong", "/stadiums")
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Printf("Comment Create: invalid form for stadium %s: %v", stadiumID, err)
		middleware.Redirect(c, middleware.NoticeError, "Something went wrong", "/stadiums/"+stadium.ID)
		return
	}

	user := middleware.CurrentUser(c)
	comment := &models.Comment{Text: form.Text, Author: user.AuthorSnapshot()}
	if err := cc.Store.CreateComment(ctx, comment); err != nil {
		logger.Error.Printf("Comment Create: storing comment: %v", err)
		middleware.Redirect(c, middleware.NoticeError, "Something went wrong", "/stadiums/"+stadium.ID)
		return
	}
	if err := cc.Store.AddStadiumComment(ctx, stadium.ID, comment.ID); err != nil {
		logger.Error.Printf("Comment Create: attaching comment %s to %s: %v", comment.ID, stadium.ID, err)
		if err := cc.Store.DeleteComment(ctx, stadium.ID, comment.ID); err != nil {
			logger.Error.Printf("Comment Create: removing orphaned comment %s: %v", comment.ID, err)
		}
		middleware.Redirect(c, middleware.NoticeError, "Something went wrong", "/stadiums/"+stadium.ID)
		return
	}

	cc.Metrics.RecordEvent(services.MetricCommentCreated)
	logger.Info.Printf("Comment Create: %s commented on %s", user.Username, stadium.ID)
	middleware.Redirect(c, middleware.NoticeSuccess, "Successfully added comment", "/stadiums/"+stadium.ID)
}

// Edit renders the edit form for the comment loaded by the ownership guard.
func (cc *CommentController) Edit(c *gin.Context) {
	render(c, http.StatusOK, "comments_edit.html", gin.H{
		"stadium_id": c.Param("id"),
		"comment":    middleware.CommentFromContext(c),
	})
}

// Update changes a comment's text.
func (cc *CommentController) Update(c *gin.Context) {
	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Printf("Comment Update: invalid form: %v", err)
		middleware.RedirectBack(c, middleware.NoticeError, "Something went wrong")
		return
	}

	if _, err := cc.Store.UpdateComment(c.Request.Context(), c.Param("comment_id"), form.Text); err != nil {
		logger.Error.Printf("Comment Update: %s: %v", c.Param("comment_id"), err)
		middleware.RedirectBack(c, middleware.NoticeError, "Something went wrong")
		return
	}
	middleware.SaveSession(c)
	c.Redirect(http.StatusFound, "/stadiums/"+c.Param("id"))
}

// Delete removes a comment and detaches it from its stadium.
func (cc *CommentController) Delete(c *gin.Context) {
	stadiumID, commentID := c.Param("id"), c.Param("comment_id")
	if err := cc.Store.DeleteComment(c.Request.Context(), stadiumID, commentID); err != nil {
		logger.Error.Printf("Comment Delete: %s: %v", commentID, err)
		middleware.RedirectBack(c, middleware.NoticeError, "Something went wrong")
		return
	}
	middleware.Redirect(c, middleware.NoticeSuccess, "Comment deleted.", "/stadiums/"+stadiumID)
}
