package domain

import "time"

// ResetToken is a single-use password-reset secret persisted alongside the
// account it belongs to. Rows are never deleted; consumed and expired tokens
// stay behind as an audit trail and are permanently inert.
type ResetToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// Redeemable reports whether the token may still be exchanged for a password
// change at the given instant. Account activity is checked separately because
// the owning row is not embedded here.
func (t *ResetToken) Redeemable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
