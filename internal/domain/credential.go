package domain

// Credential stores the password hash for a user. UserID references
// users.id but is not enforced by the schema.
type Credential struct {
	ID           int64
	UserID       int64
	PasswordHash string
}
