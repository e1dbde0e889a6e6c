package types

import "time"

// User represents a registered account.
// Users are created on registration and never updated by the API.
type User struct {
	// ID is the opaque identifier assigned by the document store.
	ID string `json:"id"`

	// Username is the display name chosen at registration.
	Username string `json:"username"`

	// Email is the login identifier. It is unique across users.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was registered.
	CreatedAt time.Time `json:"created_at"`
}
