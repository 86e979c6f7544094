package models

import "time"

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user record.
	ID int64
	// Name is the display name chosen at sign-up.
	Name string
	// Email is the unique email address used for sign-in.
	Email string
	// PasswordHash is the salted bcrypt hash of the user's password.
	// The plaintext password is never stored.
	PasswordHash string
	// VisitCount is the aggregate number of visits across all of the
	// user's links. It is bumped on every successful redirect.
	VisitCount int64
	// CreatedAt is the timestamp indicating when the user signed up.
	CreatedAt time.Time
	// UpdatedAt is the timestamp indicating when the user was last updated.
	UpdatedAt time.Time
}

// Session maps an opaque bearer token to the user it was minted for.
// A user may hold any number of concurrent sessions.
type Session struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}

// UserRank is a single leaderboard row: a user together with the number
// of links they own and the sum of those links' visit counts.
type UserRank struct {
	UserID     int64
	Name       string
	LinksCount int64
	VisitCount int64
}
