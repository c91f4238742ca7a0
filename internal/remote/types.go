package remote

import (
	"time"
)

// Link is a saved bookmark as the server reports it.
type Link struct {
	ID        string    `json:"id" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title" yaml:"title"`
	Favicon   string    `json:"favicon,omitempty" yaml:"favicon,omitempty"`
	SessionID string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewLink is the body of a save.
type NewLink struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Favicon   string `json:"favicon,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Session is a named group of links.
type Session struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tag         string    `json:"tag,omitempty"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
	LinkCount   int       `json:"link_count"`
}

// NewSession is the body of a session create.
type NewSession struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tag         string `json:"tag,omitempty"`
	IsFavorite  bool   `json:"is_favorite,omitempty"`
}

// SessionPatch is a partial update; nil fields are left unchanged.
type SessionPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Tag         *string `json:"tag,omitempty"`
	IsFavorite  *bool   `json:"is_favorite,omitempty"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
}

// ListQuery selects a page of a listing. Zero fields are not sent.
// SessionID applies to links only; "none" selects links without a session.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	Sort      string
	SessionID string
}

// SessionNone is the SessionID filter for standalone links.
const SessionNone = "none"

// ExportDocument is the body of the export endpoint.
type ExportDocument struct {
	Version    string    `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Links      []Link    `json:"links" yaml:"links"`
}
