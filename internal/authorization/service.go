package authorization

import "context"

// Service answers whether an actor may perform an action on an object
// within a branch.
type Service interface {
	Authorize(ctx context.Context, actor string, branchID string, object string, action string) error
}
