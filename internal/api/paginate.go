package api

import (
	"net/http"
	"strconv"

	"github.com/joestump/bytevault/internal/store"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// parseListParams extracts page, limit, search and sort from the query.
// page defaults to 1; limit defaults to 50 and is silently capped at 200;
// any sort other than "oldest" means newest first.
func parseListParams(r *http.Request) store.ListParams {
	q := r.URL.Query()
	p := store.ListParams{
		Page:   1,
		Limit:  defaultLimit,
		Search: q.Get("search"),
		Sort:   store.SortNewest,
	}

	if v := q.Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Page = parsed
		}
	}
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Limit = parsed
		}
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if q.Get("sort") == store.SortOldest {
		p.Sort = store.SortOldest
	}
	return p
}
