package models

import "time"

// Link represents a shortened URL and its associated metadata.
type Link struct {
	// ID is the unique identifier for the link record.
	ID int64
	// UserID is the identifier of the user who created the link.
	UserID int64
	// ShortCode is the short code associated with the original URL.
	ShortCode string
	// OriginalURL is the original, full-length URL that the short code points to.
	OriginalURL string
	// VisitCount tracks the number of times the link has been resolved.
	VisitCount int64
	// CreatedAt is the timestamp indicating when the link was created.
	CreatedAt time.Time
	// UpdatedAt is the timestamp indicating when the link was last updated.
	UpdatedAt time.Time
}
