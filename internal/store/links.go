package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Link represents a row in the links table.
type Link struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	URL       string         `db:"url"`
	Title     string         `db:"title"`
	Favicon   sql.NullString `db:"favicon"`
	SessionID sql.NullString `db:"session_id"`
	CreatedAt time.Time      `db:"created_at"`
}

// NewLink holds the caller-supplied fields of a link. Empty Favicon and
// SessionID are stored as NULL; an empty SessionID means "standalone".
type NewLink struct {
	URL       string
	Title     string
	Favicon   string
	SessionID string
}

const linkColumns = `l.id, l.user_id, l.url, l.title, l.favicon, l.session_id, l.created_at`

// LinkStore is the sqlx-backed store for saved links. Every query is scoped
// to the owning user.
type LinkStore struct {
	db *sqlx.DB
}

func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

func (s *LinkStore) q(query string) string { return s.db.Rebind(query) }

// HashURL returns the hex SHA-256 used by the (user_id, url_hash) unique index.
func HashURL(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

// Create saves a link for ownerID. Returns ErrDuplicateURL if the owner already
// saved the URL, or an ErrNotFound-wrapped error if SessionID names a session
// the owner does not have.
func (s *LinkStore) Create(ctx context.Context, ownerID string, in NewLink) (*Link, error) {
	hash := HashURL(in.URL)

	var existing int
	if err := s.db.GetContext(ctx, &existing,
		s.q(`SELECT COUNT(*) FROM links WHERE user_id = ? AND url_hash = ?`), ownerID, hash); err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrDuplicateURL
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if in.SessionID != "" {
		var owned int
		if err := tx.GetContext(ctx, &owned,
			tx.Rebind(`SELECT COUNT(*) FROM sessions WHERE id = ? AND user_id = ?`), in.SessionID, ownerID); err != nil {
			return nil, err
		}
		if owned == 0 {
			return nil, fmt.Errorf("session %s: %w", in.SessionID, ErrNotFound)
		}
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO links (id, user_id, url, url_hash, title, favicon, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), id, ownerID, in.URL, hash, in.Title, nullString(in.Favicon), nullString(in.SessionID), now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateURL
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, ownerID, id)
}

// GetByID returns the owner's link matching id, or ErrNotFound.
func (s *LinkStore) GetByID(ctx context.Context, ownerID, id string) (*Link, error) {
	var l Link
	err := s.db.GetContext(ctx, &l,
		s.q(`SELECT `+linkColumns+` FROM links l WHERE l.id = ? AND l.user_id = ?`), id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns one page of the owner's links plus the total match count.
// sessionFilter is "" for all links, SessionFilterNone for unassigned links,
// or a session id. Search matches title or url case-insensitively.
func (s *LinkStore) List(ctx context.Context, ownerID string, p ListParams, sessionFilter string) ([]*Link, int, error) {
	where := `WHERE l.user_id = ?`
	args := []interface{}{ownerID}

	switch sessionFilter {
	case "":
	case SessionFilterNone:
		where += ` AND l.session_id IS NULL`
	default:
		where += ` AND l.session_id = ?`
		args = append(args, sessionFilter)
	}

	if p.Search != "" {
		pattern := searchPattern(p.Search)
		where += ` AND (LOWER(l.title) LIKE ? OR LOWER(l.url) LIKE ?)`
		args = append(args, pattern, pattern)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.q(`SELECT COUNT(*) FROM links l `+where), args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + linkColumns + ` FROM links l ` + where +
		` ORDER BY ` + p.orderBy("l.created_at") + `, l.id LIMIT ? OFFSET ?`
	fetchArgs := append(args, p.Limit, p.offset())

	links := []*Link{}
	if err := s.db.SelectContext(ctx, &links, s.q(query), fetchArgs...); err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

// ListAll returns every link of the owner, newest first. Used by export.
func (s *LinkStore) ListAll(ctx context.Context, ownerID string) ([]*Link, error) {
	links := []*Link{}
	err := s.db.SelectContext(ctx, &links, s.q(`
		SELECT `+linkColumns+` FROM links l WHERE l.user_id = ? ORDER BY l.created_at DESC, l.id
	`), ownerID)
	if err != nil {
		return nil, err
	}
	return links, nil
}

// Delete removes the owner's link. Returns ErrNotFound if no row matched.
func (s *LinkStore) Delete(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM links WHERE id = ? AND user_id = ?`), id, ownerID)
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
	return nil
}

// BulkDelete removes the listed links of the owner and reports how many
// rows were deleted. Ids the owner does not have are ignored.
func (s *LinkStore) BulkDelete(ctx context.Context, ownerID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM links WHERE user_id = ? AND id IN (?)`, ownerID, ids)
	if err != nil {
		return 0, fmt.Errorf("expand ids: %w", err)
	}
	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
