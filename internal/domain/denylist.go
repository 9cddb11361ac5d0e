package domain

import (
	"context"
	"time"
)

// TokenDenylist blocks revoked refresh tokens until they would have expired
// anyway. Implementations decide storage; the zero-infrastructure deployment
// uses none and logout stays client-side.
type TokenDenylist interface {
	Deny(ctx context.Context, tokenID string, until time.Time) error
	IsDenied(ctx context.Context, tokenID string) (bool, error)
}
