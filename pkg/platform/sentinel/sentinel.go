package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Store drivers return these
// (optionally wrapped) so repositories can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: document does not exist in the store
// - ErrConflict: write lost against a concurrent writer
// - ErrUnavailable: store temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
