package models

import "time"

// MessageFilter holds the normalized, conjunctive filter predicates for
// listing archived messages. Listings are always scoped to archived records;
// the zero value matches everything.
type MessageFilter struct {
	GuildID   *string
	ChannelID *string
	AuthorID  *string
	// Search is a case-insensitive substring matched against content OR
	// author username.
	Search    *string
	StartDate *time.Time
	EndDate   *time.Time
}

// ArchiveQuery carries the raw, untrusted listing parameters exactly as
// they arrived at the HTTP boundary. Normalization (integer coercion,
// clamping, date parsing) happens in the archived-messages service before
// anything reaches a storage query.
type ArchiveQuery struct {
	Page      string
	Limit     string
	GuildID   string
	ChannelID string
	AuthorID  string
	Search    string
	StartDate string
	EndDate   string
}
