package types

import "time"

// Identity represents an account held by the identity provider. The rest
// of the system only ever reads identities; directory rows reference them
// by ID.
type Identity struct {
	// ID is the stable opaque identifier of the account.
	ID string `json:"id" db:"id"`

	// Email is the unique sign-in address of the account.
	Email string `json:"email" db:"email"`

	// Name is optional display metadata captured at sign-up. It seeds the
	// directory User row when one is created lazily on first sign-in.
	Name string `json:"name" db:"name"`

	// PasswordHash stores the hashed credential. Never exposed in API
	// responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
