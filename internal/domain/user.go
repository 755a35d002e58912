package domain

// User is an account holder.
type User struct {
	ID    int64
	Name  string
	Email string
}
