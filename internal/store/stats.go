package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Totals are instance-wide row counts.
type Totals struct {
	Users    int `db:"users"`
	Links    int `db:"links"`
	Sessions int `db:"sessions"`
}

// StatsStore reads instance-wide counts for the metrics gauges.
type StatsStore struct {
	db *sqlx.DB
}

func NewStatsStore(db *sqlx.DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.db.GetContext(ctx, &t, `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM links) AS links,
			(SELECT COUNT(*) FROM sessions) AS sessions
	`)
	return t, err
}
