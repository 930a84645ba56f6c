package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viptransport/booking-api/internal/core/domain"
)

const uniqueViolation = "23505"

const userColumns = `id, full_name, email, password_hash, google_id, phone, profile_picture,
       role, email_verified, is_active, created_at, updated_at, last_login_at`

// prefixedUserColumns qualifies the user column list with a table alias for
// joined queries.
func prefixedUserColumns(alias string) string {
	cols := strings.Split(userColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// UserRepository implements ports.UserRepository on PostgreSQL. Uniqueness of
// email and google_id is enforced by the indexes created in the migrations;
// violations are mapped to domain.ErrUserExists.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                                    domain.User
		passwordHash, googleID, phone, photo *string
	)
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &passwordHash, &googleID, &phone, &photo,
		&u.Role, &u.EmailVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
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
	return &u, nil
}

// nullable maps an empty string to NULL so the partial unique index on
// google_id and the auth-path check constraint behave as intended.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, full_name, email, password_hash, google_id, phone, profile_picture,
		                   role, email_verified, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID, user.FullName, user.Email,
		nullable(user.PasswordHash), nullable(user.GoogleID),
		nullable(user.Phone), nullable(user.ProfilePicture),
		user.Role, user.EmailVerified, user.IsActive,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*domain.User, error) {
	// One query covers both match paths; a google-id match wins when the two
	// would resolve to different rows.
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE google_id = $1 OR email = $2
		ORDER BY (google_id = $1) DESC NULLS LAST
		LIMIT 1
	`
	row := r.pool.QueryRow(ctx, query, googleID, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by google id or email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) LinkGoogle(ctx context.Context, id, googleID, picture string) error {
	query := `
		UPDATE users
		SET google_id       = $2,
		    profile_picture = COALESCE(NULLIF($3, ''), profile_picture),
		    email_verified  = TRUE,
		    updated_at      = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, googleID, picture)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUserExists
		}
		return fmt.Errorf("link google identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = now() WHERE id = $1`, id,
	); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`,
		id, role,
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
