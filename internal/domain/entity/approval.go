package entity

import "time"

// Kind identifies which content collection an item belongs to.
type Kind string

const (
	KindNews Kind = "news"
	KindAd   Kind = "ad"
)

// Valid reports whether k is a known content kind.
func (k Kind) Valid() bool {
	return k == KindNews || k == KindAd
}

// Approval holds the moderation state shared by every content item.
//
// Approved is nil while the item awaits an admin decision. ApprovedAt is
// only set while Approved is non-nil.
type Approval struct {
	AuthorID   int64
	Published  bool
	Approved   *bool
	ApprovedAt *time.Time
}

// Status derives the display status of the item.
func (a Approval) Status() Status {
	return DeriveStatus(a.Published, a.Approved)
}

// Submit marks the item as intended for publication. The approval
// decision is left untouched.
func (a *Approval) Submit() {
	a.Published = true
}

// Decide records an admin decision at the given time. Deciding twice
// overwrites the previous decision and timestamp.
func (a *Approval) Decide(approved bool, at time.Time) {
	v := approved
	t := at
	a.Approved = &v
	a.ApprovedAt = &t
}

// ResetApproval clears any admin decision so the item goes back through review.
func (a *Approval) ResetApproval() {
	a.Approved = nil
	a.ApprovedAt = nil
}

// IsPending reports whether the item is waiting for a moderation decision.
func (a Approval) IsPending() bool {
	return a.Approved == nil && a.Published
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}
