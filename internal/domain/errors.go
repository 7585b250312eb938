package domain

import "errors"

// ErrMissingFields is returned when a required intake field is absent.
var ErrMissingFields = errors.New("missing required fields")

// ErrSessionNotFound is returned when a session id is unknown, or the
// session's status forbids the requested operation.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidOption is returned when a choice id is not offered by the
// session's current node.
var ErrInvalidOption = errors.New("invalid option")
