// Package memory is an in-process store.Store used for development and tests.
// File: store/memory/memory.go
package memory

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/juju/mgo/v3/bson"

	"footy-stadia/logger"
	"footy-stadia/models"
	"footy-stadia/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps every collection in maps guarded by one mutex.
type Store struct {
	mu       sync.Mutex
	users    map[string]*models.User
	stadiums map[string]*models.Stadium
	comments map[string]*models.Comment
	now      func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		stadiums: make(map[string]*models.Stadium),
		comments: make(map[string]*models.Comment),
		now:      time.Now,
	}
}

func newID() string {
	return bson.NewObjectId().Hex()
}

func validID(kind, id string) error {
	if !bson.IsObjectIdHex(id) {
		return errors.NotFoundf("%s %q", kind, id)
	}
	return nil
}

func copyStadium(s *models.Stadium) *models.Stadium {
	out := *s
	out.CommentIDs = append([]string(nil), s.CommentIDs...)
	out.Comments = nil
	return &out
}

// ------------------- users -------------------

// CreateUser stores user and assigns its ID. Usernames are unique.
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return errors.AlreadyExistsf("user %q", user.Username)
		}
	}
	user.ID = newID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	stored := *user
	s.users[user.ID] = &stored
	logger.Debug.Printf("memory: created user %s (%s)", user.Username, user.ID)
	return nil
}

func (s *Store) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if err := validID("user", id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errors.NotFoundf("user %q", id)
	}
	out := *u
	return &out, nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, errors.NotFoundf("user %q", username)
}

// ------------------- stadiums -------------------

func (s *Store) ListStadiums(_ context.Context, search string) ([]models.Stadium, error) {
	var re *regexp.Regexp
	if search != "" {
		var err error
		re, err = regexp.Compile("(?i)" + store.SearchPattern(search))
		if err != nil {
			return nil, errors.Annotate(err, "compiling search pattern")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stadiums := make([]models.Stadium, 0, len(s.stadiums))
	for _, st := range s.stadiums {
		if re != nil && !re.MatchString(st.Name) {
			continue
		}
		stadiums = append(stadiums, *copyStadium(st))
	}
	// insertion order, matching a natural-order Mongo find
	sort.SliceStable(stadiums, func(i, j int) bool {
		return stadiums[i].CreatedAt.Before(stadiums[j].CreatedAt) ||
			(stadiums[i].CreatedAt.Equal(stadiums[j].CreatedAt) && stadiums[i].ID < stadiums[j].ID)
	})
	return stadiums, nil
}

func (s *Store) CreateStadium(_ context.Context, stadium *models.Stadium) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stadium.ID = newID()
	if stadium.CreatedAt.IsZero() {
		stadium.CreatedAt = s.now()
	}
	s.stadiums[stadium.ID] = copyStadium(stadium)
	return nil
}

func (s *Store) FindStadium(_ context.Context, id string) (*models.Stadium, error) {
	if err := validID("stadium", id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stadiums[id]
	if !ok {
		return nil, errors.NotFoundf("stadium %q", id)
	}
	return copyStadium(st), nil
}

func (s *Store) FindStadiumWithComments(ctx context.Context, id string) (*models.Stadium, error) {
	st, err := s.FindStadium(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cid := range st.CommentIDs {
		if c, ok := s.comments[cid]; ok {
			st.Comments = append(st.Comments, *c)
		}
	}
	return st, nil
}

func (s *Store) UpdateStadium(_ context.Context, id string, update models.StadiumUpdate) (*models.Stadium, error) {
	if err := validID("stadium", id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stadiums[id]
	if !ok {
		return nil, errors.NotFoundf("stadium %q", id)
	}
	st.Name = update.Name
	st.Image = update.Image
	st.Description = update.Description
	st.Location = update.Location
	st.Lat = update.Lat
	st.Lng = update.Lng
	return copyStadium(st), nil
}

func (s *Store) DeleteStadium(_ context.Context, id string) error {
	if err := validID("stadium", id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stadiums[id]
	if !ok {
		return errors.NotFoundf("stadium %q", id)
	}
	for _, cid := range st.CommentIDs {
		delete(s.comments, cid)
	}
	delete(s.stadiums, id)
	return nil
}

func (s *Store) AddStadiumComment(_ context.Context, stadiumID, commentID string) error {
	if err := validID("stadium", stadiumID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stadiums[stadiumID]
	if !ok {
		return errors.NotFoundf("stadium %q", stadiumID)
	}
	st.CommentIDs = append(st.CommentIDs, commentID)
	return nil
}

// ------------------- comments -------------------

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.ID = newID()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = s.now()
	}
	stored := *comment
	s.comments[comment.ID] = &stored
	return nil
}

func (s *Store) FindComment(_ context.Context, id string) (*models.Comment, error) {
	if err := validID("comment", id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, errors.NotFoundf("comment %q", id)
	}
	out := *c
	return &out, nil
}

func (s *Store) UpdateComment(_ context.Context, id, text string) (*models.Comment, error) {
	if err := validID("comment", id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, errors.NotFoundf("comment %q", id)
	}
	c.Text = text
	out := *c
	return &out, nil
}

func (s *Store) DeleteComment(_ context.Context, stadiumID, commentID string) error {
	if err := validID("comment", commentID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[commentID]; !ok {
		return errors.NotFoundf("comment %q", commentID)
	}
	delete(s.comments, commentID)

	if st, ok := s.stadiums[stadiumID]; ok {
		kept := st.CommentIDs[:0]
		for _, cid := range st.CommentIDs {
			if cid != commentID {
				kept = append(kept, cid)
			}
		}
		st.CommentIDs = kept
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() {}
