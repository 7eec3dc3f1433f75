// Package entity defines the core domain types of the community backend:
// users, news posts, advertisements and their moderation state, together
// with the status derivation and permission rules shared by every layer.
package entity

import "time"

// MaxSummaryLength bounds News.Summary, in characters.
const MaxSummaryLength = 500

// News is a community news post.
type News struct {
	ID       int64
	Title    string
	Slug     string
	Summary  string
	Body     string // Markdown as written by the author
	BodyHTML string // rendered and sanitized Body
	ImageURL string
	Category string
	Approval
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields an author controls.
func (n *News) Validate() error {
	if err := requireLength("title", n.Title, 3, 200); err != nil {
		return err
	}
	if err := requireLength("body", n.Body, 1, 50000); err != nil {
		return err
	}
	if err := maxLength("summary", n.Summary, MaxSummaryLength); err != nil {
		return err
	}
	if err := maxLength("category", n.Category, 64); err != nil {
		return err
	}
	if n.ImageURL != "" {
		if err := ValidateURL("imageUrl", n.ImageURL); err != nil {
			return err
		}
	}
	return nil
}
