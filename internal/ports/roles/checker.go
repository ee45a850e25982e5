package roles

import "context"

// Checker es el equivalente al RPC has_role(user_id, role) del backend de autorización.
type Checker interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
}
