package federated

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/viptransport/booking-api/internal/core/ports"
)

// GoogleVerifier validates Google-issued ID tokens against the configured
// OAuth client id (the expected audience). The signature and issuer checks
// are delegated to the idtoken validator, which fetches and caches Google's
// signing keys.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*ports.FederatedIdentity, error) {
	if v.clientID == "" {
		return nil, errors.New("google verifier: client id not configured")
	}

	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("validate id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("id token carries no email claim")
	}

	verified, _ := payload.Claims["email_verified"].(bool)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &ports.FederatedIdentity{
		Subject:       payload.Subject,
		Email:         email,
		FullName:      name,
		Picture:       picture,
		EmailVerified: verified,
	}, nil
}
