package ports

import (
	"context"

	"github.com/viptransport/booking-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, fullName, email, password, phone string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)

	// GoogleLogin verifies an externally issued Google ID token and
	// reconciles it against existing accounts. The boolean reports whether a
	// new account was created.
	GoogleLogin(ctx context.Context, idToken string) (string, *domain.User, bool, error)

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
