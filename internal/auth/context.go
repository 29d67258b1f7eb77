package auth

import (
	"context"
)

// SystemUserID identifies requests authenticated with the API key
const SystemUserID = "system"

// UserContext holds authenticated caller information
type UserContext struct {
	UserID      string
	DisplayName string
	Email       string
	// IsSystem is set for callers authenticated with the API key
	IsSystem bool
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

func systemUser() *UserContext {
	return &UserContext{
		UserID:      SystemUserID,
		DisplayName: "System",
		IsSystem:    true,
	}
}
