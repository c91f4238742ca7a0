package migrations

// Links are unique per (user_id, url_hash) rather than (user_id, url):
// MySQL cannot put a unique index over an unbounded TEXT column, and the
// SHA-256 of the URL keeps the constraint identical on every dialect.

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLinks, downCreateLinks)
}

func upCreateLinks(ctx context.Context, tx *sql.Tx) error {
	exec := func(stmt string) error {
		_, err := tx.ExecContext(ctx, stmt)
		return err
	}
	return execAll(exec, linksUpStmts())
}

func downCreateLinks(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS links`)
	return err
}

func linksUpStmts() []string {
	switch dialect {
	case "postgres":
		return []string{
			`CREATE TABLE IF NOT EXISTS links (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    url        TEXT NOT NULL,
    url_hash   CHAR(64) NOT NULL,
    title      TEXT NOT NULL DEFAULT '',
    favicon    TEXT,
    session_id TEXT REFERENCES sessions (id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL
)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_links_user_url ON links (user_id, url_hash)`,
			`CREATE INDEX IF NOT EXISTS idx_links_user_created ON links (user_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_links_session ON links (session_id)`,
		}
	case "mysql":
		return []string{
			`CREATE TABLE IF NOT EXISTS links (
    id         CHAR(36) PRIMARY KEY,
    user_id    CHAR(36) NOT NULL,
    url        TEXT NOT NULL,
    url_hash   CHAR(64) NOT NULL,
    title      VARCHAR(500) NOT NULL DEFAULT '',
    favicon    VARCHAR(2048),
    session_id CHAR(36),
    created_at DATETIME(6) NOT NULL,
    UNIQUE INDEX idx_links_user_url (user_id, url_hash),
    INDEX idx_links_user_created (user_id, created_at),
    INDEX idx_links_session (session_id),
    CONSTRAINT fk_links_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
    CONSTRAINT fk_links_session FOREIGN KEY (session_id) REFERENCES sessions (id) ON DELETE CASCADE
)`,
		}
	default: // sqlite3
		return []string{
			`CREATE TABLE IF NOT EXISTS links (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    url        TEXT NOT NULL,
    url_hash   TEXT NOT NULL,
    title      TEXT NOT NULL DEFAULT '',
    favicon    TEXT,
    session_id TEXT REFERENCES sessions (id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL
)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_links_user_url ON links (user_id, url_hash)`,
			`CREATE INDEX IF NOT EXISTS idx_links_user_created ON links (user_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_links_session ON links (session_id)`,
		}
	}
}
