package entity

import "time"

// StatusChange is an audit entry written whenever a moderation action changes
// the derived status of a content item. It is history only; the current
// status is always derived from the item itself.
type StatusChange struct {
	ID        int64
	Kind      Kind
	ContentID int64
	From      Status
	To        Status
	ActorID   int64
	CreatedAt time.Time
}
