// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID      string
	Email       string
	Roles       []string
	Permissions []string
	TerminalIDs []string // Terminals the user is assigned to
	IsAdmin     bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasTerminalAccess checks if user is assigned to the terminal.
// Admins have access to every terminal.
func HasTerminalAccess(ctx context.Context, terminalID string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	for _, id := range u.TerminalIDs {
		if id == terminalID {
			return true
		}
	}
	return false
}

// GetTerminalIDs returns the caller's assigned terminal IDs.
func GetTerminalIDs(ctx context.Context) []string {
	if u := GetUser(ctx); u != nil {
		return u.TerminalIDs
	}
	return nil
}
