// Package pathutil parses ids out of request paths and normalizes paths
// for use as metric labels.
package pathutil

import (
	"net/http"
	"strconv"
	"strings"

	"brazucas-cork/internal/domain/entity"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = &entity.ValidationError{Field: "id", Message: "must be a positive integer"}

// ParseID parses a positive int64 id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// PathID returns the id bound to the {name} wildcard of the matched route.
func PathID(r *http.Request, name string) (int64, error) {
	return ParseID(r.PathValue(name))
}

// ExtractID parses the id that follows prefix in path, e.g.
// ExtractID("/news/12", "/news/") returns 12.
func ExtractID(path, prefix string) (int64, error) {
	return ParseID(strings.TrimPrefix(path, prefix))
}
