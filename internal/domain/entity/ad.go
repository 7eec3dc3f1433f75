package entity

import "time"

// Ad is a service advertisement posted by a community member.
type Ad struct {
	ID           int64
	Title        string
	Description  string // sanitized HTML
	Category     string
	Price        string // free text, e.g. "€40/h"
	ContactEmail string
	ContactPhone string
	WebsiteURL   string
	ImageURL     string
	Location     string
	Approval
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields an author controls.
func (a *Ad) Validate() error {
	if err := requireLength("title", a.Title, 3, 200); err != nil {
		return err
	}
	if err := requireLength("description", a.Description, 1, 10000); err != nil {
		return err
	}
	if err := maxLength("price", a.Price, 64); err != nil {
		return err
	}
	if err := maxLength("location", a.Location, 128); err != nil {
		return err
	}
	if a.ContactEmail == "" && a.ContactPhone == "" && a.WebsiteURL == "" {
		return &ValidationError{Field: "contact", Message: "an email, phone or website is required"}
	}
	if a.ContactEmail != "" {
		if err := ValidateEmail("contactEmail", a.ContactEmail); err != nil {
			return err
		}
	}
	if a.ContactPhone != "" && !phonePattern.MatchString(a.ContactPhone) {
		return &ValidationError{Field: "contactPhone", Message: "invalid phone number"}
	}
	if a.WebsiteURL != "" {
		if err := ValidateURL("websiteUrl", a.WebsiteURL); err != nil {
			return err
		}
	}
	if a.ImageURL != "" {
		if err := ValidateURL("imageUrl", a.ImageURL); err != nil {
			return err
		}
	}
	return nil
}
