package auth

import "context"

type contextKey string

const userIDKey contextKey = "liftdiary-user-id"

// WithUser stores the resolved user id on the context.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserFromContext retrieves the user id stored by WithUser.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
