// File: middleware/ownership.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/juju/errors"

	"footy-stadia/logger"
	"footy-stadia/models"
	"footy-stadia/store"
)

const (
	stadiumKey = "stadium"
	commentKey = "comment"
)

// ownedLoader fetches the guarded resource and its owner snapshot.
type ownedLoader func(c *gin.Context) (models.Author, interface{}, error)

// StadiumOwnerOrAdmin guards routes on /stadiums/:id. On success the loaded
// stadium is available through StadiumFromContext.
func StadiumOwnerOrAdmin(s store.Store) gin.HandlerFunc {
	return ownerOrAdmin(stadiumKey, func(c *gin.Context) (models.Author, interface{}, error) {
		stadium, err := s.FindStadium(c.Request.Context(), c.Param("id"))
		if err != nil {
			return models.Author{}, nil, err
		}
		return stadium.Author, stadium, nil
	})
}

// CommentOwnerOrAdmin guards routes on /stadiums/:id/comments/:comment_id. A
// comment that is not attached to stadium :id counts as not found. On success
// the loaded comment is available through CommentFromContext.
func CommentOwnerOrAdmin(s store.Store) gin.HandlerFunc {
	return ownerOrAdmin(commentKey, func(c *gin.Context) (models.Author, interface{}, error) {
		ctx := c.Request.Context()
		stadiumID, commentID := c.Param("id"), c.Param("comment_id")

		stadium, err := s.FindStadium(ctx, stadiumID)
		if err != nil {
			return models.Author{}, nil, err
		}
		if !containsID(stadium.CommentIDs, commentID) {
			return models.Author{}, nil, errors.NotFoundf("comment %q on stadium %q", commentID, stadiumID)
		}

		comment, err := s.FindComment(ctx, commentID)
		if err != nil {
			return models.Author{}, nil, err
		}
		return comment.Author, comment, nil
	})
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ownerOrAdmin passes when the current user owns the resource or is an
// admin. Both resource kinds share one redirect policy: back to the
// referring page.
func ownerOrAdmin(key string, load ownedLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			logger.Warn.Printf("OwnerOrAdmin(%s): anonymous request to %s", key, c.Request.URL.Path)
			Redirect(c, NoticeError, "You need to be logged in to do that.", "/login")
			c.Abort()
			return
		}

		author, resource, err := load(c)
		switch {
		case errors.Is(err, errors.NotFound):
			logger.Warn.Printf("OwnerOrAdmin(%s): %v", key, err)
			RedirectBack(c, NoticeError, "Item was not found")
			c.Abort()
			return
		case err != nil:
			logger.Error.Printf("OwnerOrAdmin(%s): lookup failed: %v", key, err)
			RedirectBack(c, NoticeError, "Something went wrong")
			c.Abort()
			return
		}

		if !models.CanModify(author, user) {
			logger.Warn.Printf("OwnerOrAdmin(%s): user %s denied on %s", key, user.Username, c.Request.URL.Path)
			RedirectBack(c, NoticeError, "Access Denied")
			c.Abort()
			return
		}

		c.Set(key, resource)
		c.Next()
	}
}

// StadiumFromContext returns the stadium loaded by StadiumOwnerOrAdmin.
func StadiumFromContext(c *gin.Context) *models.Stadium {
	v, _ := c.Get(stadiumKey)
	stadium, _ := v.(*models.Stadium)
	return stadium
}

// CommentFromContext returns the comment loaded by CommentOwnerOrAdmin.
func CommentFromContext(c *gin.Context) *models.Comment {
	v, _ := c.Get(commentKey)
	comment, _ := v.(*models.Comment)
	return comment
}
