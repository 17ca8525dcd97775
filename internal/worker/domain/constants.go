package domain

// Event handling outcomes, used as metric labels
const (
	OutcomeReported = "reported"
	OutcomeClean    = "clean"
	OutcomeIgnored  = "ignored"
	OutcomeFailed   = "failed"
)
