package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrOutcome = "outcome"
	AttrJob     = "job"
)

// Prediction outcomes.
const (
	OutcomeAccepted            = "accepted"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeUserNotFound        = "user_not_found"
	OutcomeInvalid             = "invalid"
	OutcomeError               = "error"
)
