package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/viptransport/booking-api/internal/core/domain"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// Claims is the bearer-credential payload. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// JWTIssuer signs and verifies HS256 bearer credentials.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *JWTIssuer) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email:    user.Email,
		Role:     user.Role,
		FullName: user.FullName,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

func (i *JWTIssuer) Verify(token string) (*domain.Identity, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return &domain.Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Role:     claims.Role,
		FullName: claims.FullName,
	}, nil
}
