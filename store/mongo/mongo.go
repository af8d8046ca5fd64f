// Package mongo is the MongoDB-backed store.Store.
// File: store/mongo/mongo.go
package mongo

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"

	"footy-stadia/logger"
	"footy-stadia/models"
	"footy-stadia/store"
)

const (
	usersC    = "users"
	stadiumsC = "stadiums"
	commentsC = "comments"
)

var _ store.Store = (*Store)(nil)

// Store holds the root session; every operation runs on a copy of it.
type Store struct {
	session *mgo.Session
	dbName  string
}

// Dial connects to url (for example mongodb://localhost/Footy_Stadia) and
// ensures the unique username index.
func Dial(url string, timeout time.Duration) (*Store, error) {
	info, err := mgo.ParseURL(url)
	if err != nil {
		return nil, errors.Annotatef(err, "parsing mongo url")
	}
	info.Timeout = timeout

	session, err := mgo.DialWithInfo(info)
	if err != nil {
		return nil, errors.Annotatef(err, "dialing mongo at %v", info.Addrs)
	}
	session.SetMode(mgo.Monotonic, true)

	s := &Store{session: session, dbName: info.Database}
	if err := s.ensureIndexes(); err != nil {
		session.Close()
		return nil, errors.Trace(err)
	}
	logger.Info.Printf("mongo: connected to %v (db %q)", info.Addrs, info.Database)
	return s, nil
}

func (s *Store) ensureIndexes() error {
	session := s.session.Copy()
	defer session.Close()

	err := session.DB(s.dbName).C(usersC).EnsureIndex(mgo.Index{
		Key:    []string{"username"},
		Unique: true,
	})
	return errors.Annotate(err, "ensuring username index")
}

// collection returns a collection bound to a fresh session copy; callers must
// close the returned session.
func (s *Store) collection(ctx context.Context, name string) (*mgo.Collection, *mgo.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, errors.Trace(err)
	}
	session := s.session.Copy()
	return session.DB(s.dbName).C(name), session, nil
}

func objectID(kind, id string) (bson.ObjectId, error) {
	if !bson.IsObjectIdHex(id) {
		return "", errors.NotFoundf("%s %q", kind, id)
	}
	return bson.ObjectIdHex(id), nil
}

// Close ends the root session.
func (s *Store) Close() {
	s.session.Close()
}

// ------------------- users -------------------

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	c, session, err := s.collection(ctx, usersC)
	if err != nil {
		return err
	}
	defer session.Close()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	doc := newUserDoc(user)
	if err := c.Insert(doc); err != nil {
		if mgo.IsDup(err) {
			return errors.AlreadyExistsf("user %q", user.Username)
		}
		return errors.Annotatef(err, "inserting user %q", user.Username)
	}
	user.ID = doc.DocID.Hex()
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID("user", id)
	if err != nil {
		return nil, err
	}
	c, session, err := s.collection(ctx, usersC)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var doc userDoc
	if err := c.FindId(oid).One(&doc); err == mgo.ErrNotFound {
		return nil, errors.NotFoundf("user %q", id)
	} else if err != nil {
		return nil, errors.Annotatef(err, "finding user %q", id)
	}
	return doc.toModel(), nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	c, session, err := s.collection(ctx, usersC)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var doc userDoc
	if err := c.Find(bson.M{"username": username}).One(&doc); err == mgo.ErrNotFound {
		return nil, errors.NotFoundf("user %q", username)
	} else if err != nil {
		return nil, errors.Annotatef(err, "finding user %q", username)
	}
	return doc.toModel(), nil
}

// ------------------- stadiums -------------------

func (s *Store) ListStadiums(ctx context.Context, search string) ([]models.Stadium, error) {
	c, session, err := s.collection(ctx, stadiumsC)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	query := bson.M{}
	if search != "" {
		query["name"] = bson.RegEx{Pattern: store.SearchPattern(search), Options: "i"}
	}

	var docs []stadiumDoc
	if err := c.Find(query).All(&docs); err != nil {
		return nil, errors.Annotate(err, "listing stadiums")
	}
	stadiums := make([]models.Stadium, 0, len(docs))
	for _, doc := range docs {
		stadiums = append(stadiums, *doc.toModel())
	}
	return stadiums, nil
}

func (s *Store) CreateStadium(ctx context.Context, stadium *models.Stadium) error {
	c, session, err := s.collection(ctx, stadiumsC)
	if err != nil {
		return err
	}
	defer session.Close()

	if stadium.CreatedAt.IsZero() {
		stadium.CreatedAt = time.Now().UTC()
	}
	doc, err := newStadiumDoc(stadium)
	if err != nil {
		return errors.Trace(err)
	}
	if err := c.Insert(doc); err != nil {
		return errors.Annotatef(err, "inserting stadium %q", stadium.Name)
	}
	stadium.ID = doc.DocID.Hex()
	return nil
}

func (s *Store) FindStadium(ctx context.Context, id string) (*models.Stadium, error) {
	doc, err := s.findStadiumDoc(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Store) findStadiumDoc(ctx context.Context, id string) (*stadiumDoc, error) {
	oid, err := objectID("stadium", id)
	if err != nil {
		return nil, err
	}
	c, session, err := s.collection(ctx, stadiumsC)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var doc stadiumDoc
	if err := c.FindId(oid).One(&doc); err == mgo.ErrNotFound {
		return nil, errors.NotFoundf("stadium %q", id)
	} else if err != nil {
		return nil, errors.Annotatef(err, "finding stadium %q", id)
	}
	return &doc, nil
}

// FindStadiumWithComments is a one-level populate of the comments reference.
func (s *Store) FindStadiumWithComments(ctx context.Context, id string) (*models.Stadium, error) {
	doc, err := s.findStadiumDoc(ctx, id)
	if err != nil {
		return nil, err
	}
	stadium := doc.toModel()
	if len(doc.Comments) == 0 {
		return stadium, nil
	}

	c, session, err := s.collection(ctx, commentsC)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var commentDocs []commentDoc
	if err := c.Find(bson.M{"_id": bson.M{"$in": doc.Comments}}).All(&commentDocs); err != nil {
		return nil, errors.Annotatef(err, "populating comments of stadium %q", id)
	}
	byID := make(map[bson.ObjectId]commentDoc, len(commentDocs))
	for _, cd := range commentDocs {
		byID[cd.DocID] = cd
	}
	for _, cid := range doc.Comments {
		if cd, ok := byID[cid]; ok {
			stadium.Comments = append(stadium.Comments, *cd.toModel())
		}
	}
	return stadium, nil
}

func (s *Store) UpdateStadium(ctx context.Context, id string, update models.StadiumUpdate) (*models.Stadium, error) {
	oid, err := objectID("stadium", id)
	if err != nil {
		return nil, err
	}
	c, session, err := s.collection(ctx, stadiumsC)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	// author is never part of the $set
	change := mgo.Change{
		Update: bson.M{"$set": bson.M{
			"name":        update.Name,
			"image":       update.Image,
			"description": update.Description,
			"location":    update.Location,
			"lat":         update.Lat,
			"lng":         update.Lng,
		}},
		ReturnNew: true,
	}
	var doc stadiumDoc
	if _, err := c.FindId(oid).Apply(change, &doc); err == mgo.ErrNotFound {
		return nil, errors.NotFoundf("stadium %q", id)
	} else if err != nil {
		return nil, errors.Annotatef(err, "updating stadium %q", id)
	}
	return doc.toModel(), nil
}

func (s *Store) DeleteStadium(ctx context.Context, id string) error {
	doc, err := s.findStadiumDoc(ctx, id)
	if err != nil {
		return err
	}

	if len(doc.Comments) > 0 {
		comments, session, err := s.collection(ctx, commentsC)
		if err != nil {
			return err
		}
		_, err = comments.RemoveAll(bson.M{"_id": bson.M{"$in": doc.Comments}})
		session.Close()
		if err != nil {
			return errors.Annotatef(err, "removing comments of stadium %q", id)
		}
	}

	c, session, err := s.collection(ctx, stadiumsC)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := c.RemoveId(doc.DocID); err == mgo.ErrNotFound {
		return errors.NotFoundf("stadium %q", id)
	} else if err != nil {
		return errors.Annotatef(err, "removing stadium %q", id)
	}
	return nil
}

func (s *Store) AddStadiumComment(ctx context.Context, stadiumID, commentID string) error {
	sid, err := objectID("stadium", stadiumID)
	if err != nil {
		return err
	}
	cid, err := objectID("comment", commentID)
	if err != nil {
		return err
	}
	c, session, err := s.collection(ctx, stadiumsC)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := c.UpdateId(sid, bson.M{"$push": bson.M{"comments": cid}}); err == mgo.ErrNotFound {
		return errors.NotFoundf("stadium %q", stadiumID)
	} else if err != nil {
		return errors.Annotatef(err, "attaching comment %q to stadium %q", commentID, stadiumID)
	}
	return nil
}

// ------------------- comments -------------------

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	c, session, err := s.collection(ctx, commentsC)
	if err != nil {
		return err
	}
	defer session.Close()

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	doc, err := newCommentDoc(comment)
	if err != nil {
		return errors.Trace(err)
	}
	if err := c.Insert(doc); err != nil {
		return errors.Annotate(err, "inserting comment")
	}
	comment.ID = doc.DocID.Hex()
	return nil
}

func (s *Store) FindComment(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := objectID("comment", id)
	if err != nil {
		return nil, err
	}
	c, session, err := s.collection(ctx, commentsC)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var doc commentDoc
	if err := c.FindId(oid).One(&doc); err == mgo.ErrNotFound {
		return nil, errors.NotFoundf("comment %q", id)
	} else if err != nil {
		return nil, errors.Annotatef(err, "finding comment %q", id)
	}
	return doc.toModel(), nil
}

func (s *Store) UpdateComment(ctx context.Context, id, text string) (*models.Comment, error) {
	oid, err := objectID("comment", id)
	if err != nil {
		return nil, err
	}
	c, session, err := s.collection(ctx, commentsC)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	change := mgo.Change{
		Update:    bson.M{"$set": bson.M{"text": text}},
		ReturnNew: true,
	}
	var doc commentDoc
	if _, err := c.FindId(oid).Apply(change, &doc); err == mgo.ErrNotFound {
		return nil, errors.NotFoundf("comment %q", id)
	} else if err != nil {
		return nil, errors.Annotatef(err, "updating comment %q", id)
	}
	return doc.toModel(), nil
}

func (s *Store) DeleteComment(ctx context.Context, stadiumID, commentID string) error {
	cid, err := objectID("comment", commentID)
	if err != nil {
		return err
	}
	c, session, err := s.collection(ctx, commentsC)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := c.RemoveId(cid); err == mgo.ErrNotFound {
		return errors.NotFoundf("comment %q", commentID)
	} else if err != nil {
		return errors.Annotatef(err, "removing comment %q", commentID)
	}

	if !bson.IsObjectIdHex(stadiumID) {
		return nil
	}
	stadiums := session.DB(s.dbName).C(stadiumsC)
	err = stadiums.UpdateId(bson.ObjectIdHex(stadiumID), bson.M{"$pull": bson.M{"comments": cid}})
	if err != nil && err != mgo.ErrNotFound {
		return errors.Annotatef(err, "detaching comment %q from stadium %q", commentID, stadiumID)
	}
	return nil
}
