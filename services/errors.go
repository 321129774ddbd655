package services

import "errors"

var (
	// ErrSelectionPrecondition: an interaction check needs at least two
	// distinct medications. Caller error, not coerced into a result.
	ErrSelectionPrecondition = errors.New("interaction check requires at least 2 medications")

	// ErrAnalysisUnavailable: the knowledge collaborator was unreachable or
	// returned garbage. Surfaced instead of defaulting to "no risk".
	ErrAnalysisUnavailable = errors.New("interaction analysis unavailable")

	// ErrScheduleIntegrity: the planner proposed a schedule referencing
	// medications that are not in the input set (or slots missing a time of
	// day). The schedule is rejected rather than stored inconsistent.
	ErrScheduleIntegrity = errors.New("schedule failed referential integrity check")

	// ErrCacheMiss: no live entry for the key. Expected control flow, not a
	// failure.
	ErrCacheMiss = errors.New("report cache miss")

	// ErrActivationViaUpdate: activation has a dedicated endpoint so the
	// single-active invariant has exactly one write path. Caller error.
	ErrActivationViaUpdate = errors.New("activate a schedule via its activate endpoint")
)
