package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route to its label template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns are evaluated in order, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/(news|ads)/\d+/submit$`), Template: "/$1/:id/submit"},
	{Pattern: regexp.MustCompile(`^/(news|ads)/\d+/history$`), Template: "/$1/:id/history"},
	{Pattern: regexp.MustCompile(`^/(news|ads)/\d+$`), Template: "/$1/:id"},
	{Pattern: regexp.MustCompile(`^/users/\d+/role$`), Template: "/users/:id/role"},
	{Pattern: regexp.MustCompile(`^/users/\d+$`), Template: "/users/:id"},
}

// NormalizePath replaces ids in path with ":id" so metric labels stay bounded.
// Query strings and a trailing slash are dropped; unknown paths pass through.
//
//	NormalizePath("/news/123")         // "/news/:id"
//	NormalizePath("/ads/9/submit")     // "/ads/:id/submit"
//	NormalizePath("/news/mine")        // "/news/mine"
//	NormalizePath("/news/1?x=y")       // "/news/:id"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Pattern.ReplaceAllString(path, p.Template)
		}
	}
	return path
}
