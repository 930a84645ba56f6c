package domain

// Identity is the decoded view of a verified bearer credential. The role is
// trusted as of issuance time; a role change takes effect only after the
// holder signs in again.
type Identity struct {
	UserID   string
	Email    string
	Role     string
	FullName string
}
