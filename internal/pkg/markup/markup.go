// Package markup turns user-submitted text into safe HTML and derives the
// plain-text excerpts and URL slugs shown in listings.
package markup

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mozillazg/go-unidecode"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	// ugcPolicy allows the formatting tags expected in community posts and
	// strips scripts, event handlers and inline styles.
	ugcPolicy = bluemonday.UGCPolicy()

	md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

	nonSlug   = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRuns = regexp.MustCompile(`\s+`)
)

// RenderMarkdown converts Markdown to HTML and sanitizes the result.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}

// SanitizeHTML strips anything outside the user-generated-content policy.
func SanitizeHTML(html string) string {
	return ugcPolicy.Sanitize(html)
}

// Excerpt returns the first maxRunes runes of the visible text of html,
// cut on a word boundary and suffixed with "…" when truncated.
func Excerpt(html string, maxRunes int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(spaceRuns.ReplaceAllString(doc.Text(), " "))
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)[:maxRunes]
	cut := string(runes)
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// Slugify transliterates s to ASCII and joins its words with hyphens, so
// "Feira de São João em Cork!" becomes "feira-de-sao-joao-em-cork".
func Slugify(s string) string {
	slug := strings.ToLower(unidecode.Unidecode(s))
	slug = strings.Trim(nonSlug.ReplaceAllString(slug, "-"), "-")
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	return slug
}
