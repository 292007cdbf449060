package mailgate

import "time"

// Field bounds shared by both validation layers. The client-side form and
// every server-side check must agree on these numbers, so they live in one
// place and are never duplicated as literals.
const (
	NameMinLen    = 2
	NameMaxLen    = 50
	MessageMinLen = 10
	MessageMaxLen = 1000
)

// Abuse-prevention defaults.
const (
	// DefaultRateLimit is the maximum number of submissions one client may
	// make per window.
	DefaultRateLimit = 5

	// DefaultRateWindow is the fixed rate-limiting window.
	DefaultRateWindow = time.Minute

	// DefaultSweepInterval is how often the limiter evicts expired entries.
	DefaultSweepInterval = 5 * time.Minute

	// minSubmissionTime is the shortest human-plausible interval between
	// form load and submission.
	minSubmissionTime = 3 * time.Second
)
