package respond

import (
	"regexp"
)

var (
	// Signed JWTs: three base64url segments, header starting with eyJ.
	jwtPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

	// bcrypt hashes.
	bcryptPattern = regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`)

	// Slack and Discord incoming webhook secrets.
	slackWebhookPattern   = regexp.MustCompile(`hooks\.slack\.com/services/[A-Za-z0-9/]+`)
	discordWebhookPattern = regexp.MustCompile(`discord(?:app)?\.com/api/webhooks/[0-9]+/[A-Za-z0-9_-]+`)

	// Passwords inside connection strings.
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
)

// SanitizeError returns err's message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = jwtPattern.ReplaceAllString(msg, "eyJ****")
	msg = bcryptPattern.ReplaceAllString(msg, "$$2a$$****")
	msg = slackWebhookPattern.ReplaceAllString(msg, "hooks.slack.com/services/****")
	msg = discordWebhookPattern.ReplaceAllString(msg, "discord.com/api/webhooks/****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
