package mailgate

import (
	"strings"
	"time"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// IsHoneypotTriggered reports whether the hidden form field carries a value.
// Real users never see the field; bots fill it in. Whitespace-only input is
// tolerated so an accidental keypress does not flag a legitimate user.
func IsHoneypotTriggered(honeypot string) bool {
	return strings.TrimSpace(honeypot) != ""
}

// IsSubmissionTooFast reports whether the form was submitted less than
// MinSubmissionTime after it was loaded. formLoadTime is the client-reported
// load timestamp in epoch milliseconds. Exactly MinSubmissionTime elapsed
// passes; a timestamp far in the past (or a zero value from a client that
// never sent one) also passes.
func IsSubmissionTooFast(formLoadTime int64) bool {
	elapsed := timeNow().UnixMilli() - formLoadTime
	return elapsed < minSubmissionTime.Milliseconds()
}

// MinSubmissionTime returns the minimum interval between form load and
// submission that is considered human-plausible.
func MinSubmissionTime() time.Duration {
	return minSubmissionTime
}
