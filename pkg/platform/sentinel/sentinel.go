package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped) and
// services translate them into domain errors with the message callers should see.
//
// - ErrNotFound: no record has the requested key
// - ErrConflict: a unique attribute (email, username) is already taken
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
