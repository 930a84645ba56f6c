package service

import (
	"context"

	"github.com/viptransport/booking-api/internal/core/domain"
	"github.com/viptransport/booking-api/internal/core/ports"
)

// AdminService implements the admin-only user management operations.
type AdminService struct {
	users ports.UserRepository
}

func NewAdminService(users ports.UserRepository) *AdminService {
	return &AdminService{users: users}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) UpdateRole(ctx context.Context, actorID, targetID, role string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}
	// Self-service role changes are refused so an admin cannot demote the
	// account holding the session that issued the request.
	if actorID == targetID {
		return domain.ErrSelfRoleChange
	}
	return s.users.UpdateRole(ctx, targetID, role)
}
