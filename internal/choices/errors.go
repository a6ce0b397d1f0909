// Package choices holds the reconciliation engine for trip add-on
// answers: an append-once event log, the derived per-traveler view of
// effective answers, and the completion predicate that gates the
// "everyone has answered" roster.
package choices

import "errors"

// ErrDuplicateChoice is returned when a traveler answers an
// (item, option) pair they already answered. Answers are never
// overwritten through this path; handlers translate this into an
// HTTP 409 response.
var ErrDuplicateChoice = errors.New("choice already recorded")

// ErrUnknownItemKey is returned for a choice group outside the
// itinerary. Fatal, never retried.
var ErrUnknownItemKey = errors.New("unknown item key")

// ErrInvalidChoice is returned when the answer is neither "yes" nor
// "no", or a required field is empty.
var ErrInvalidChoice = errors.New("invalid choice")

// ErrUnauthorized is returned when a caller outside the configured
// admin set invokes an admin-only operation. The operation is not
// attempted.
var ErrUnauthorized = errors.New("unauthorized")
