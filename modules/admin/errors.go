package admin

import "errors"

var (
	ErrNotFound          = errors.New("admin not found")
	ErrInvalidID         = errors.New("invalid admin ID")
	ErrDuplicateEmail    = errors.New("admin with this email already exists")
	ErrFirstNameRequired = errors.New("first name is required")
	ErrLastNameRequired  = errors.New("last name is required")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrPhoneRequired     = errors.New("phone number is required")
)
