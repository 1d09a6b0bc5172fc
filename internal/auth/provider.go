package auth

import "context"

// Provider issues and validates session tokens. The concrete implementation
// is JWT-based; tests may swap in something simpler.
type Provider interface {
	IssueToken(userID string) (string, error)
	ValidateToken(ctx context.Context, token string) (string, error)
}
