package user

import (
	"fmt"
	"strings"
	"unicode"

	"brazucas-cork/internal/domain/entity"
)

// PasswordPolicy is the minimum bar for new passwords.
type PasswordPolicy struct {
	MinLength     int
	WeakPasswords []string
}

var keyboardPatterns = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
	"qwerty",
	"asdfgh",
	"zxcvb",
}

// Check returns a ValidationError on the "password" field when pw does not
// meet the policy.
func (p PasswordPolicy) Check(pw string) error {
	invalid := func(msg string) error {
		return &entity.ValidationError{Field: "password", Message: msg}
	}

	if len([]rune(pw)) < p.MinLength {
		return invalid(fmt.Sprintf("must be at least %d characters", p.MinLength))
	}
	if len(pw) > 72 {
		// bcrypt ignores everything past 72 bytes
		return invalid("must not exceed 72 bytes")
	}
	if isRepeatedChar(pw) || isSequentialDigits(pw) {
		return invalid("must not be a simple pattern")
	}
	if isKeyboardPattern(pw) {
		return invalid("must not contain a keyboard pattern")
	}

	lower := strings.ToLower(pw)
	for _, weak := range p.WeakPasswords {
		weak = strings.ToLower(weak)
		if lower == weak || (strings.HasPrefix(lower, weak) && len(lower) < p.MinLength+5) {
			return invalid("is too common")
		}
	}
	return nil
}

func isRepeatedChar(pw string) bool {
	runes := []rune(pw)
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

// isSequentialDigits matches runs like 0123456789 or 9876543210,
// wrapping around between 9 and 0.
func isSequentialDigits(pw string) bool {
	if len(pw) < 2 {
		return false
	}
	for _, ch := range pw {
		if !unicode.IsDigit(ch) || ch > unicode.MaxASCII {
			return false
		}
	}

	ascending, descending := true, true
	for i := 1; i < len(pw); i++ {
		diff := int(pw[i]) - int(pw[i-1])
		if diff != 1 && diff != -9 {
			ascending = false
		}
		if diff != -1 && diff != 9 {
			descending = false
		}
	}
	return ascending || descending
}

func isKeyboardPattern(pw string) bool {
	lower := strings.ToLower(pw)
	for _, pattern := range keyboardPatterns {
		if strings.Contains(lower, pattern) || strings.Contains(lower, reverse(pattern)) {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
