package ports

import (
	"context"
	"time"

	"github.com/viptransport/booking-api/internal/core/domain"
)

// ResetTokenRepository persists single-use password-reset tokens. Rows are
// never deleted; consumption flips the used flag and the unique token column
// is the lookup key.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *domain.ResetToken) (*domain.ResetToken, error)

	// FindRedeemable returns the token and its owning account when the token
	// string matches an unused, unexpired row belonging to an active account.
	// Any other outcome is domain.ErrInvalidResetToken; callers must not be
	// able to tell which condition failed.
	FindRedeemable(ctx context.Context, token string, now time.Time) (*domain.ResetToken, *domain.User, error)

	// ConsumeAll marks every outstanding token of the account as used.
	ConsumeAll(ctx context.Context, userID string) error
}
