// Package store defines the persistence contract for users, stadiums and comments.
// File: store/store.go
package store

import (
	"context"
	"regexp"

	"footy-stadia/models"
)

// Store is implemented by every persistence backend. Lookups that miss return
// an error satisfying errors.Is(err, errors.NotFound) from github.com/juju/errors.
// Malformed ids are reported the same way.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ListStadiums returns every stadium when search is empty, otherwise those
	// whose name contains search, case-insensitively and literally.
	ListStadiums(ctx context.Context, search string) ([]models.Stadium, error)
	CreateStadium(ctx context.Context, stadium *models.Stadium) error
	FindStadium(ctx context.Context, id string) (*models.Stadium, error)
	// FindStadiumWithComments also populates Comments in CommentIDs order,
	// skipping ids that no longer resolve.
	FindStadiumWithComments(ctx context.Context, id string) (*models.Stadium, error)
	UpdateStadium(ctx context.Context, id string, update models.StadiumUpdate) (*models.Stadium, error)
	// DeleteStadium removes the stadium and the comments attached to it.
	DeleteStadium(ctx context.Context, id string) error
	AddStadiumComment(ctx context.Context, stadiumID, commentID string) error

	CreateComment(ctx context.Context, comment *models.Comment) error
	FindComment(ctx context.Context, id string) (*models.Comment, error)
	UpdateComment(ctx context.Context, id, text string) (*models.Comment, error)
	// DeleteComment removes the comment and pulls its id from the stadium.
	DeleteComment(ctx context.Context, stadiumID, commentID string) error

	Close()
}

// SearchPattern turns a user-supplied search term into a regular expression
// that matches the term literally.
func SearchPattern(term string) string {
	return regexp.QuoteMeta(term)
}
