package ports

import "github.com/viptransport/booking-api/internal/core/domain"

// TokenIssuer creates and validates the signed bearer credential. Tokens are
// stateless: a structurally valid, unexpired, correctly signed token is full
// proof of identity, and rotating the signing secret is the only way to
// invalidate credentials already in the wild.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)

	// Verify returns the identity encoded in the token. Structural defects,
	// signature mismatches, and expiry all fail the same way; callers must
	// surface a uniform "invalid token" to the client.
	Verify(token string) (*domain.Identity, error)
}
