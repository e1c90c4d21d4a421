package store

import "errors"

// Sentinel errors returned by the store layer. Handlers map these to
// HTTP statuses; everything else is reported as a generic DB error.
var (
	ErrNotFound         = errors.New("record not found")
	ErrForbidden        = errors.New("not the creator")
	ErrSelfFollow       = errors.New("cannot follow your own profile")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrDuplicateEmail   = errors.New("email already registered")
)
