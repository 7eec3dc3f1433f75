package entity

// Status is the display label derived from a content item's published flag
// and approval decision. It is never persisted.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusPublished       Status = "published"
	StatusRejected        Status = "rejected"
)

// DeriveStatus maps (published, approved) to a Status. Rules are evaluated
// in order and the first match wins:
//
//  1. approved == false                -> rejected
//  2. approved == nil && !published    -> draft
//  3. approved == nil && published     -> pending_approval
//  4. approved == true && published    -> published
//  5. approved == true && !published   -> draft
func DeriveStatus(published bool, approved *bool) Status {
	switch {
	case approved != nil && !*approved:
		return StatusRejected
	case approved == nil && !published:
		return StatusDraft
	case approved == nil && published:
		return StatusPendingApproval
	case *approved && published:
		return StatusPublished
	default:
		return StatusDraft
	}
}

// ParseStatus converts a query value into a Status.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusDraft, StatusPendingApproval, StatusPublished, StatusRejected:
		return st, true
	}
	return "", false
}
