// File: store/mongo/docs.go
package mongo

import (
	"time"

	"github.com/juju/errors"
	"github.com/juju/mgo/v3/bson"

	"footy-stadia/models"
)

type userDoc struct {
	DocID        bson.ObjectId `bson:"_id"`
	Username     string        `bson:"username"`
	PasswordHash string        `bson:"password_hash"`
	IsAdmin      bool          `bson:"isAdmin,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

// authorDoc keeps the owner id as an ObjectId, as the original documents did.
type authorDoc struct {
	ID       bson.ObjectId `bson:"id,omitempty"`
	Username string        `bson:"username"`
}

type stadiumDoc struct {
	DocID       bson.ObjectId   `bson:"_id"`
	Name        string          `bson:"name"`
	Image       string          `bson:"image"`
	Description string          `bson:"description"`
	Location    string          `bson:"location"`
	Lat         float64         `bson:"lat"`
	Lng         float64         `bson:"lng"`
	Author      authorDoc       `bson:"author"`
	Comments    []bson.ObjectId `bson:"comments"`
	CreatedAt   time.Time       `bson:"createdAt"`
}

type commentDoc struct {
	DocID     bson.ObjectId `bson:"_id"`
	Text      string        `bson:"text"`
	Author    authorDoc     `bson:"author"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func newUserDoc(u *models.User) *userDoc {
	return &userDoc{
		DocID:        bson.NewObjectId(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
	}
}

func (d *userDoc) toModel() *models.User {
	return &models.User{
		ID:           d.DocID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		IsAdmin:      d.IsAdmin,
		CreatedAt:    d.CreatedAt,
	}
}

func newAuthorDoc(a models.Author) (authorDoc, error) {
	if a.ID == "" {
		return authorDoc{Username: a.Username}, nil
	}
	if !bson.IsObjectIdHex(a.ID) {
		return authorDoc{}, errors.NotValidf("author id %q", a.ID)
	}
	return authorDoc{ID: bson.ObjectIdHex(a.ID), Username: a.Username}, nil
}

func (d authorDoc) toModel() models.Author {
	a := models.Author{Username: d.Username}
	if d.ID != "" {
		a.ID = d.ID.Hex()
	}
	return a
}

func newStadiumDoc(s *models.Stadium) (*stadiumDoc, error) {
	author, err := newAuthorDoc(s.Author)
	if err != nil {
		return nil, errors.Trace(err)
	}
	doc := &stadiumDoc{
		DocID:       bson.NewObjectId(),
		Name:        s.Name,
		Image:       s.Image,
		Description: s.Description,
		Location:    s.Location,
		Lat:         s.Lat,
		Lng:         s.Lng,
		Author:      author,
		Comments:    []bson.ObjectId{},
		CreatedAt:   s.CreatedAt,
	}
	for _, id := range s.CommentIDs {
		if !bson.IsObjectIdHex(id) {
			return nil, errors.NotValidf("comment id %q", id)
		}
		doc.Comments = append(doc.Comments, bson.ObjectIdHex(id))
	}
	return doc, nil
}

func (d *stadiumDoc) toModel() *models.Stadium {
	s := &models.Stadium{
		ID:          d.DocID.Hex(),
		Name:        d.Name,
		Image:       d.Image,
		Description: d.Description,
		Location:    d.Location,
		Lat:         d.Lat,
		Lng:         d.Lng,
		Author:      d.Author.toModel(),
		CreatedAt:   d.CreatedAt,
	}
	for _, id := range d.Comments {
		s.CommentIDs = append(s.CommentIDs, id.Hex())
	}
	return s
}

func newCommentDoc(c *models.Comment) (*commentDoc, error) {
	author, err := newAuthorDoc(c.Author)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &commentDoc{
		DocID:     bson.NewObjectId(),
		Text:      c.Text,
		Author:    author,
		CreatedAt: c.CreatedAt,
	}, nil
}

func (d *commentDoc) toModel() *models.Comment {
	return &models.Comment{
		ID:        d.DocID.Hex(),
		Text:      d.Text,
		Author:    d.Author.toModel(),
		CreatedAt: d.CreatedAt,
	}
}
