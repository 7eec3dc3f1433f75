package entity

// Principal is the authenticated caller of an operation. The zero value is
// the anonymous caller.
type Principal struct {
	ID       int64
	Role     Role
	Nickname string
}

// Anonymous reports whether p carries no identity.
func (p Principal) Anonymous() bool {
	return p.ID <= 0
}

// IsAdmin reports whether p holds the admin role.
func (p Principal) IsAdmin() bool {
	return !p.Anonymous() && p.Role == RoleAdmin
}

// Action is an operation subject to a permission check.
type Action string

const (
	ActionCreate      Action = "create"
	ActionRead        Action = "read"
	ActionEdit        Action = "edit"
	ActionDelete      Action = "delete"
	ActionSubmit      Action = "submit"
	ActionModerate    Action = "moderate"
	ActionListAll     Action = "list_all"
	ActionListPending Action = "list_pending"
	ActionManageUsers Action = "manage_users"
)

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  string
}

var (
	allow             = Decision{Allowed: true}
	denyAnonymous     = Decision{Reason: "authentication required"}
	denyAdminOnly     = Decision{Reason: "admin role required"}
	denyNotOwner      = Decision{Reason: "caller does not own the resource"}
	denyUnknownRole   = Decision{Reason: "unknown role"}
	denyUnknownAction = Decision{Reason: "unknown action"}
)

// Err returns ErrForbidden for a denied decision and nil otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &ForbiddenError{Reason: d.Reason}
}

// Authorize decides whether p may perform action on a resource owned by
// ownerID. ownerID is ignored by actions that are not ownership scoped.
func Authorize(p Principal, action Action, ownerID int64) Decision {
	if p.Anonymous() {
		return denyAnonymous
	}
	switch p.Role {
	case RoleNormal, RoleAdmin, RoleAdvertiser:
	default:
		return denyUnknownRole
	}

	switch action {
	case ActionCreate:
		return allow
	case ActionRead, ActionEdit, ActionDelete, ActionSubmit:
		if p.Role == RoleAdmin || p.ID == ownerID {
			return allow
		}
		return denyNotOwner
	case ActionModerate, ActionListAll, ActionListPending, ActionManageUsers:
		if p.Role == RoleAdmin {
			return allow
		}
		return denyAdminOnly
	}
	return denyUnknownAction
}
