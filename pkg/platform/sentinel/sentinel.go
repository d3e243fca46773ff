package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and collaborator adapters
// return these (optionally wrapped) so services can translate them into coded
// domain errors:
//   - ErrNotFound: record does not exist (or is soft-deleted)
//   - ErrConflict: a record with the same identity already exists
//   - ErrUnavailable: backing service temporarily unavailable
//
// Input validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
