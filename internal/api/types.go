package api

import (
	"time"

	"github.com/joestump/bytevault/internal/auth"
	"github.com/joestump/bytevault/internal/store"
)

// --- Auth types ---

// CredentialsRequest is the request body for POST /api/auth/register and /login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the request body for POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the public identity of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResponse is returned by register, login and refresh. User is omitted on refresh.
type AuthResponse struct {
	User   *UserResponse  `json:"user,omitempty"`
	Tokens auth.TokenPair `json:"tokens"`
}

// --- Link types ---

// CreateLinkRequest is the request body for POST /api/links.
type CreateLinkRequest struct {
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Favicon   string  `json:"favicon"`
	SessionID *string `json:"session_id"`
}

// BulkDeleteRequest is the request body for DELETE /api/links.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// LinkResponse is the JSON representation of a link.
type LinkResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Favicon   *string   `json:"favicon"`
	SessionID *string   `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Session types ---

// CreateSessionRequest is the request body for POST /api/sessions.
type CreateSessionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Tag         *string `json:"tag"`
	IsFavorite  bool    `json:"is_favorite"`
}

// UpdateSessionRequest is the request body for PUT /api/sessions/{id}.
// Absent fields keep their stored value.
type UpdateSessionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Tag         *string `json:"tag"`
	IsFavorite  *bool   `json:"is_favorite"`
}

// SessionResponse is the JSON representation of a session.
type SessionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Tag         *string   `json:"tag"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
	LinkCount   int       `json:"link_count"`
}

// --- Export types ---

// ExportDocument is the body of GET /api/export/json.
type ExportDocument struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Links      []LinkResponse `json:"links"`
}

func toLinkResponse(l *store.Link) LinkResponse {
	resp := LinkResponse{
		ID:        l.ID,
		URL:       l.URL,
		Title:     l.Title,
		CreatedAt: l.CreatedAt,
	}
	if l.Favicon.Valid {
		resp.Favicon = &l.Favicon.String
	}
	if l.SessionID.Valid {
		resp.SessionID = &l.SessionID.String
	}
	return resp
}

func toLinkResponses(links []*store.Link) []LinkResponse {
	out := make([]LinkResponse, 0, len(links))
	for _, l := range links {
		out = append(out, toLinkResponse(l))
	}
	return out
}

func toSessionResponse(s *store.Session) SessionResponse {
	resp := SessionResponse{
		ID:         s.ID,
		Name:       s.Name,
		IsFavorite: s.IsFavorite,
		CreatedAt:  s.CreatedAt,
		LinkCount:  s.LinkCount,
	}
	if s.Description.Valid {
		resp.Description = &s.Description.String
	}
	if s.Tag.Valid {
		resp.Tag = &s.Tag.String
	}
	return resp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
