package ports

import (
	"context"

	"github.com/viptransport/booking-api/internal/core/domain"
)

// UserRepository defines the persistence interface for accounts. The storage
// layer owns the uniqueness guarantees: Create must fail with
// domain.ErrUserExists when the email (or google id) is already taken, so
// concurrent registrations can never both succeed.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByGoogleIDOrEmail resolves a federated identity against existing
	// accounts in a single query covering both match paths, preferring a
	// google-id match when both would hit different rows.
	FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*domain.User, error)

	// LinkGoogle attaches a google subject id to an account, marks the email
	// verified, and refreshes the profile picture when one is supplied.
	// Idempotent when the account is already linked. Never touches the
	// password hash.
	LinkGoogle(ctx context.Context, id, googleID, picture string) error

	SetPassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string) error
	UpdateRole(ctx context.Context, id, role string) error
	List(ctx context.Context) ([]*domain.User, error)
}
