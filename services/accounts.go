// Package services holds the application's collaborators: accounts,
// geocoding, metrics and QR codes.
// File: services/accounts.go
package services

import (
	"context"
	"strings"

	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"

	"footy-stadia/logger"
	"footy-stadia/models"
	"footy-stadia/store"
)

// AccountService registers and authenticates users.
type AccountService struct {
	Store store.Store
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

// NewAccountService creates an AccountService backed by s.
func NewAccountService(s store.Store) *AccountService {
	return &AccountService{Store: s}
}

// ------------------ password utilities ------------------

// HashPassword hashes a plain-text password with bcrypt.
func (a *AccountService) HashPassword(password string) (string, error) {
	cost := a.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Annotate(err, "hashing password")
	}
	return string(hashed), nil
}

// ComparePasswords checks if the given password matches the hashed password
func ComparePasswords(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// ------------------ registration ------------------

// Register creates a user with the given credentials. Usernames are trimmed;
// blank usernames or passwords are NotValid, taken usernames AlreadyExists.
func (a *AccountService) Register(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.NotValidf("empty username")
	}
	if password == "" {
		return nil, errors.NotValidf("empty password")
	}

	hash, err := a.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := a.Store.CreateUser(ctx, user); err != nil {
		return nil, errors.Trace(err)
	}
	logger.Info.Printf("Register: created user %s (isAdmin=%v)", user.Username, user.IsAdmin)
	return user, nil
}

// ------------------ authentication ------------------

// Authenticate verifies credentials. Unknown users and wrong passwords both
// yield an Unauthorized error so callers cannot tell them apart.
func (a *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.Store.FindUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, errors.NotFound) {
		logger.Warn.Printf("Authenticate: unknown user %q", username)
		return nil, errors.Unauthorizedf("invalid username or password")
	} else if err != nil {
		return nil, errors.Trace(err)
	}

	if !ComparePasswords(user.PasswordHash, password) {
		logger.Warn.Printf("Authenticate: wrong password for user %q", username)
		return nil, errors.Unauthorizedf("invalid username or password")
	}
	return user, nil
}
