package ports

import "context"

// FederatedIdentity is the verified result of an external sign-in assertion.
type FederatedIdentity struct {
	Subject  string
	Email    string
	FullName string
	Picture  string

	// EmailVerified reports whether the issuer has confirmed ownership of
	// Email. Accounts may only be matched by email address when it is true.
	EmailVerified bool
}

// FederatedVerifier validates an externally issued identity token against the
// trusted issuer and our expected audience.
type FederatedVerifier interface {
	Verify(ctx context.Context, idToken string) (*FederatedIdentity, error)
}
