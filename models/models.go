// Package models defines data structures used across the application.
// File: models/models.go
package models

import "time"

// ----------------------- user model -----------------------

// User is a registered account. IsAdmin bypasses ownership checks.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuthorSnapshot returns the denormalized owner reference stored on records
// this user creates.
func (u *User) AuthorSnapshot() Author {
	return Author{ID: u.ID, Username: u.Username}
}

// ----------------------- ownership -----------------------

// Author is the owner snapshot (id + username at creation time).
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CanModify reports whether user may edit or delete a record owned by author.
// Admins always pass; otherwise the ids must match exactly.
func CanModify(author Author, user *User) bool {
	if user == nil {
		return false
	}
	return user.IsAdmin || (author.ID != "" && author.ID == user.ID)
}

// ------------------------ stadium model -----------------------

// Stadium is a listed football ground.
type Stadium struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Location    string    `json:"location"` // normalized by the geocoder
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Author      Author    `json:"author"`
	CommentIDs  []string  `json:"commentIds"`
	Comments    []Comment `json:"comments,omitempty"` // populated on read only
	CreatedAt   time.Time `json:"createdAt"`
}

// EditableBy is CanModify for use in templates.
func (s Stadium) EditableBy(user *User) bool {
	return CanModify(s.Author, user)
}

// StadiumUpdate holds the fields the update route may change. The author is
// deliberately absent.
type StadiumUpdate struct {
	Name        string
	Image       string
	Description string
	Location    string
	Lat         float64
	Lng         float64
}

// ---------------------- comment model ----------------------

// Comment is a user-authored note attached to one stadium.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// EditableBy is CanModify for use in templates.
func (c Comment) EditableBy(user *User) bool {
	return CanModify(c.Author, user)
}
