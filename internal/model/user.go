package model

import "time"

// User is an account that can authenticate and book tickets.  Only the
// bcrypt hash of the password is retained.  Role is either "ADMIN" or
// "CUSTOMER" and is embedded into issued JWTs.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
