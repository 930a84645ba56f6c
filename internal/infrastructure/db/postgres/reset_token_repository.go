package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viptransport/booking-api/internal/core/domain"
)

// ResetTokenRepository implements ports.ResetTokenRepository on PostgreSQL.
type ResetTokenRepository struct {
	pool *pgxpool.Pool
}

func NewResetTokenRepository(pool *pgxpool.Pool) *ResetTokenRepository {
	return &ResetTokenRepository{pool: pool}
}

func (r *ResetTokenRepository) Create(ctx context.Context, token *domain.ResetToken) (*domain.ResetToken, error) {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		token.ID, token.UserID, token.Token, token.ExpiresAt, token.Used, token.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reset token: %w", err)
	}
	return token, nil
}

func (r *ResetTokenRepository) FindRedeemable(ctx context.Context, token string, now time.Time) (*domain.ResetToken, *domain.User, error) {
	// All validity conditions live in one joined query so no caller can tell
	// which of them failed: unknown token, consumed, expired, and inactive
	// account all surface as the same domain error.
	query := `
		SELECT t.id, t.user_id, t.token, t.expires_at, t.used, t.created_at,
		       ` + prefixedUserColumns("u") + `
		FROM password_reset_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = $1
		  AND NOT t.used
		  AND t.expires_at > $2
		  AND u.is_active
	`
	row := r.pool.QueryRow(ctx, query, token, now)

	var (
		rt                                   domain.ResetToken
		u                                    domain.User
		passwordHash, googleID, phone, photo *string
	)
	err := row.Scan(
		&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.Used, &rt.CreatedAt,
		&u.ID, &u.FullName, &u.Email, &passwordHash, &googleID, &phone, &photo,
		&u.Role, &u.EmailVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrInvalidResetToken
		}
		return nil, nil, fmt.Errorf("find reset token: %w", err)
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if googleID != nil {
		u.GoogleID = *googleID
	}
	if phone != nil {
		u.Phone = *phone
	}
	if photo != nil {
		u.ProfilePicture = *photo
	}
	return &rt, &u, nil
}

func (r *ResetTokenRepository) ConsumeAll(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE password_reset_tokens SET used = TRUE WHERE user_id = $1 AND NOT used`,
		userID,
	); err != nil {
		return fmt.Errorf("consume reset tokens: %w", err)
	}
	return nil
}
