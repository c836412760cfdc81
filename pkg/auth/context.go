package auth

import (
	"context"
	"errors"
)

type contextKey string

const userContextKey contextKey = "user_context"

// UserContext carries the authenticated user through request handling
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

// IsAdmin reports whether the user carries the admin role
func (u *UserContext) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == "admin" {
			return true
		}
	}
	return false
}

// WithUser attaches the user context to a request context
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return user, nil
}
