package entity

import (
	"strings"
	"time"
)

// Role is the coarse permission level of a user.
type Role string

const (
	RoleNormal     Role = "normal"
	RoleAdmin      Role = "admin"
	RoleAdvertiser Role = "advertiser"
)

// ParseRole returns the Role named by s.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleNormal, RoleAdmin, RoleAdvertiser:
		return r, nil
	}
	return "", &ValidationError{Field: "role", Message: "must be one of normal, admin, advertiser"}
}

// User is a registered community member.
type User struct {
	ID           int64
	Email        string
	Nickname     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the caller identity of u.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role, Nickname: u.Nickname}
}

// Validate checks email and nickname. Password rules live in the user use case
// because they are configurable.
func (u *User) Validate() error {
	if err := ValidateEmail("email", u.Email); err != nil {
		return err
	}
	if !nicknamePattern.MatchString(u.Nickname) {
		return &ValidationError{
			Field:   "nickname",
			Message: "must be 3-32 characters of letters, digits, '.', '_' or '-'",
		}
	}
	if _, err := ParseRole(string(u.Role)); err != nil {
		return err
	}
	return nil
}
