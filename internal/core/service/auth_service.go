package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/viptransport/booking-api/internal/api/metrics"
	"github.com/viptransport/booking-api/internal/core/domain"
	"github.com/viptransport/booking-api/internal/core/ports"
)

const (
	bcryptCost     = 12
	minPasswordLen = 6
	resetTokenTTL  = time.Hour
)

// AuthService implements registration, login, federated login, and the
// password-reset flow. Verification always completes before any state
// mutation; the unique constraints in the store are the authority for
// concurrent duplicates, not the pre-checks here.
type AuthService struct {
	users     ports.UserRepository
	resets    ports.ResetTokenRepository
	tokens    ports.TokenIssuer
	federated ports.FederatedVerifier
	notifier  ports.Notifier
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	resets ports.ResetTokenRepository,
	tokens ports.TokenIssuer,
	federated ports.FederatedVerifier,
	notifier ports.Notifier,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		resets:    resets,
		tokens:    tokens,
		federated: federated,
		notifier:  notifier,
		log:       log,
	}
}

// normalizeEmail folds an address to the canonical stored form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, fullName, email, password, phone string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if fullName == "" || email == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}
	if len(password) < minPasswordLen {
		return "", nil, domain.ErrInvalidInput
	}

	// Pre-check is an optimization for a friendly error; the unique index on
	// email is what actually prevents concurrent duplicates.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("lookup existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return token, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("password", "failure").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup account: %w", err)
	}

	// Inactive and google-only accounts fail with the same generic message
	// as a wrong password so the response never reveals account state.
	if !user.IsActive || !user.HasPassword() {
		metrics.LoginsTotal.WithLabelValues("password", "failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("password", "failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.touchLastLogin(ctx, user)

	metrics.LoginsTotal.WithLabelValues("password", "success").Inc()
	return token, user, nil
}

func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (string, *domain.User, bool, error) {
	if idToken == "" {
		return "", nil, false, domain.ErrInvalidGoogleToken
	}

	ident, err := s.federated.Verify(ctx, idToken)
	if err != nil {
		s.log.Debug().Err(err).Msg("google token verification failed")
		metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
		return "", nil, false, domain.ErrInvalidGoogleToken
	}

	// An unverified email could name any existing account; matching and
	// linking by address requires the issuer to have confirmed ownership.
	if !ident.EmailVerified {
		metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
		return "", nil, false, domain.ErrInvalidGoogleToken
	}

	email := normalizeEmail(ident.Email)

	user, err := s.users.FindByGoogleIDOrEmail(ctx, ident.Subject, email)
	created := false
	switch {
	case err == nil:
		if !user.IsActive {
			metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
			return "", nil, false, domain.ErrInvalidGoogleToken
		}
		// Linking is idempotent and augments the account: an email-matched
		// local account keeps its password hash and gains the google path.
		if err := s.users.LinkGoogle(ctx, user.ID, ident.Subject, ident.Picture); err != nil {
			return "", nil, false, fmt.Errorf("link google identity: %w", err)
		}
		user.GoogleID = ident.Subject
		user.EmailVerified = true
		if ident.Picture != "" {
			user.ProfilePicture = ident.Picture
		}
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = s.createGoogleUser(ctx, ident, email)
		if err != nil {
			return "", nil, false, err
		}
		created = true
	default:
		return "", nil, false, fmt.Errorf("lookup account: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, false, fmt.Errorf("issue token: %w", err)
	}

	s.touchLastLogin(ctx, user)

	metrics.LoginsTotal.WithLabelValues("google", "success").Inc()
	return token, user, created, nil
}

func (s *AuthService) createGoogleUser(ctx context.Context, ident *ports.FederatedIdentity, email string) (*domain.User, error) {
	fullName := ident.FullName
	if fullName == "" {
		fullName = email
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uuid.NewString(),
		FullName:       fullName,
		Email:          email,
		GoogleID:       ident.Subject,
		ProfilePicture: ident.Picture,
		Role:           domain.RoleUser,
		EmailVerified:  true,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.users.Create(ctx, user)
	if err == nil {
		return created, nil
	}
	// A concurrent request may have created the row between the lookup and
	// the insert; the unique index reports it and the row is re-resolved.
	if errors.Is(err, domain.ErrUserExists) {
		return s.users.FindByGoogleIDOrEmail(ctx, ident.Subject, email)
	}
	return nil, err
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same outward response as the found case; nothing is created.
			return nil
		}
		return fmt.Errorf("lookup account: %w", err)
	}
	if !user.IsActive {
		return nil
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	now := time.Now().UTC()
	reset := &domain.ResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	if _, err := s.resets.Create(ctx, reset); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	metrics.ResetTokensIssuedTotal.Inc()

	// Delivery is best-effort: an unmailed token is inert and expires on its
	// own, and a delivery error must not change the HTTP response.
	if err := s.notifier.SendPasswordReset(ctx, user.Email, user.FullName, token); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("reset email not sent")
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || len(newPassword) < minPasswordLen {
		return domain.ErrInvalidInput
	}

	reset, user, err := s.resets.FindRedeemable(ctx, token, time.Now().UTC())
	if err != nil {
		metrics.ResetAttemptsTotal.WithLabelValues("failure").Inc()
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		metrics.ResetAttemptsTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("hash password: %w", err)
	}

	// The password write is the correctness boundary. Consuming the token
	// rows afterwards is cleanup: if it fails the tokens still expire, so the
	// operation reports success and the failure is only logged.
	if err := s.users.SetPassword(ctx, user.ID, string(hash)); err != nil {
		metrics.ResetAttemptsTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.resets.ConsumeAll(ctx, user.ID); err != nil {
		s.log.Error().Err(err).
			Str("user_id", user.ID).
			Str("token_id", reset.ID).
			Msg("reset tokens not consumed after password change")
	}

	metrics.ResetAttemptsTotal.WithLabelValues("success").Inc()
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// touchLastLogin records the sign-in time. Last-write-wins across concurrent
// logins; a failure never blocks the response.
func (s *AuthService) touchLastLogin(ctx context.Context, user *domain.User) {
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("last login not recorded")
		return
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now
}

// generateResetToken returns a 256-bit random secret in URL-safe form.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
