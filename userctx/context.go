package userctx

import "context"

// Context key type
type contextKey string

const userNameKey contextKey = "user_name"
const UserIDKey contextKey = "user_id"

// SetUserName adds the signed-in user's display name to request context
func SetUserName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, userNameKey, name)
}

// GetUserName retrieves the display name from request context
func GetUserName(ctx context.Context) string {
	name, ok := ctx.Value(userNameKey).(string)
	if !ok {
		return "anonymous"
	}
	return name
}

// SetUserID adds user ID to request context
func SetUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// GetUserID retrieves user ID from request context
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}
