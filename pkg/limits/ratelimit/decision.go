package ratelimit

// Decision is the outcome of a single admission check.
type Decision string

const (
	// Admitted means the call fit within the window and was recorded.
	Admitted Decision = "admitted"

	// Rejected means the window was full and nothing was recorded.
	Rejected Decision = "rejected"
)

// Allowed reports whether the decision admits the call.
func (d Decision) Allowed() bool {
	return d == Admitted
}

// String returns the decision as a string.
func (d Decision) String() string {
	return string(d)
}
