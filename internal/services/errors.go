package services

import "errors"

var (
	// ErrNotApproved is returned when an operation requires an approved
	// membership the caller (or target) does not have.
	ErrNotApproved = errors.New("membership not approved")

	// ErrInvalidInput is returned when a required field is missing or out
	// of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEventClosed is returned for RSVPs against an event whose start
	// time has passed.
	ErrEventClosed = errors.New("event already started")

	// ErrAlreadyAdmin is returned when creating an admin row for an id
	// that already has one.
	ErrAlreadyAdmin = errors.New("already an admin")

	// ErrIdentityNotFound is returned when admin creation targets an email
	// with no identity-provider account.
	ErrIdentityNotFound = errors.New("no account exists for this email")
)
