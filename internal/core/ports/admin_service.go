package ports

import (
	"context"

	"github.com/viptransport/booking-api/internal/core/domain"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// UpdateRole changes the role of the target account. actorID is the
	// admin performing the change; admins cannot change their own role.
	UpdateRole(ctx context.Context, actorID, targetID, role string) error
}
