package pagination

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Params is the page a client asked for.
type Params struct {
	Page  int // 1-based
	Limit int
}

// ParseQueryParams reads ?page= and ?limit=. Absent values take the
// configured defaults; present ones must be in range. On error the returned
// Params still holds whatever was parsed so callers can log it.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	q := r.URL.Query()
	params := Params{Page: config.DefaultPage, Limit: config.DefaultLimit}

	page, err := queryInt(q, "page", params.Page)
	if err != nil || page < 1 {
		return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
	}
	params.Page = page

	limit, err := queryInt(q, "limit", params.Limit)
	if err != nil || limit < 1 || limit > config.MaxLimit {
		return params, fmt.Errorf("invalid query parameter: limit must be between 1 and %d", config.MaxLimit)
	}
	params.Limit = limit

	return params, nil
}

func queryInt(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
