package database

import "errors"

var (
	// ErrEmailExists is returned when an attempt is made to register
	// a user with an email address that is already taken.
	ErrEmailExists = errors.New("email exists")
	// ErrShortCodeExists is returned when an attempt is made to create
	// a new link with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrUserNotFound is returned when no user matches the given
	// identifier or email address.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned when no session matches the given
	// bearer token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrLinkNotFound is returned when an attempt is made to retrieve
	// a link using an id or short code that doesn't exist.
	ErrLinkNotFound = errors.New("link not found")
)
