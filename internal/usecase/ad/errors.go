// Package ad provides the use cases for service advertisements. Ads follow
// the same approval workflow as news posts.
package ad

import (
	"fmt"

	"brazucas-cork/internal/domain/entity"
)

var (
	// ErrAdNotFound indicates that the ad does not exist or is not visible
	// to the caller.
	ErrAdNotFound = fmt.Errorf("ad: %w", entity.ErrNotFound)

	// ErrInvalidAdID indicates a non-positive id.
	ErrInvalidAdID = &entity.ValidationError{Field: "id", Message: "must be positive"}
)
