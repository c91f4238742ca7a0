package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Session is a named collection of links. LinkCount is derived.
type Session struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Tag         sql.NullString `db:"tag"`
	IsFavorite  bool           `db:"is_favorite"`
	CreatedAt   time.Time      `db:"created_at"`
	LinkCount   int            `db:"link_count"`
}

// NewSession holds the fields of a session to create.
type NewSession struct {
	Name        string
	Description string
	Tag         string
	IsFavorite  bool
}

// SessionPatch holds a partial update; nil fields keep their stored value.
type SessionPatch struct {
	Name        *string
	Description *string
	Tag         *string
	IsFavorite  *bool
}

const sessionColumns = `s.id, s.user_id, s.name, s.description, s.tag, s.is_favorite, s.created_at,
	(SELECT COUNT(*) FROM links l WHERE l.session_id = s.id) AS link_count`

// SessionStore is the sqlx-backed store for sessions.
type SessionStore struct {
	db *sqlx.DB
}

func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a session for ownerID.
func (s *SessionStore) Create(ctx context.Context, ownerID string, in NewSession) (*Session, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO sessions (id, user_id, name, description, tag, is_favorite, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, ownerID, in.Name, nullString(in.Description), nullString(in.Tag), in.IsFavorite, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, ownerID, id)
}

// GetByID returns the owner's session matching id, or ErrNotFound.
func (s *SessionStore) GetByID(ctx context.Context, ownerID, id string) (*Session, error) {
	var sess Session
	err := s.db.GetContext(ctx, &sess,
		s.q(`SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ? AND s.user_id = ?`), id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// List returns one page of the owner's sessions plus the total match count.
// Search matches name, description or tag case-insensitively.
func (s *SessionStore) List(ctx context.Context, ownerID string, p ListParams) ([]*Session, int, error) {
	where := `WHERE s.user_id = ?`
	args := []interface{}{ownerID}
	if p.Search != "" {
		pattern := searchPattern(p.Search)
		where += ` AND (LOWER(s.name) LIKE ? OR LOWER(COALESCE(s.description, '')) LIKE ? OR LOWER(COALESCE(s.tag, '')) LIKE ?)`
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.q(`SELECT COUNT(*) FROM sessions s `+where), args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions s ` + where +
		` ORDER BY ` + p.orderBy("s.created_at") + `, s.id LIMIT ? OFFSET ?`
	fetchArgs := append(args, p.Limit, p.offset())

	sessions := []*Session{}
	if err := s.db.SelectContext(ctx, &sessions, s.q(query), fetchArgs...); err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// Update applies a partial update. Returns ErrNotFound if the owner has no such session.
func (s *SessionStore) Update(ctx context.Context, ownerID, id string, patch SessionPatch) (*Session, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE sessions SET
			name = COALESCE(?, name),
			description = COALESCE(?, description),
			tag = COALESCE(?, tag),
			is_favorite = COALESCE(?, is_favorite)
		WHERE id = ? AND user_id = ?
	`), patch.Name, patch.Description, patch.Tag, patch.IsFavorite, id, ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, ownerID, id)
}

// Delete removes the owner's session together with the links it holds.
// Returns ErrNotFound if no session matched.
func (s *SessionStore) Delete(ctx context.Context, ownerID, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM links WHERE session_id = ? AND user_id = ?`), id, ownerID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM sessions WHERE id = ? AND user_id = ?`), id, ownerID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
