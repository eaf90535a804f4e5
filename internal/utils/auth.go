package utils

import "context"

type contextKey string

// SetUserContext stores the authenticated user id (called by middleware)
func SetUserContext(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// GetUserIDFromContext retrieves userID safely. A zero id is treated as
// anonymous.
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok && id != 0
}
