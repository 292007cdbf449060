package mailgate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// local@domain.tld shape, nothing fancier. Anything a real mail server
	// would bounce gets caught downstream when the reply fails.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	crlfRegex = regexp.MustCompile(`[\r\n]`)
)

// ValidationResult reports the outcome of a single validation pass. On
// failure, exactly one field is flagged: the first failing one in the fixed
// order name, email, message.
type ValidationResult struct {
	Valid bool
	Error string
	Field string
}

func invalidField(field, msg string) ValidationResult {
	return ValidationResult{Error: msg, Field: field}
}

// ValidateContactForm checks the visible contact-form fields and returns the
// first failure. Values are trimmed before length checks; embedded CR/LF in
// name or email is rejected even post-trim to close the header-injection
// vector.
//
// Kept deliberately free of any schema library so it can also be compiled
// into constrained entry points where binary size matters. The library-backed
// layer on the primary request path is ValidateSubmission; both consume the
// same bounds from limits.go.
func ValidateContactForm(name, email, message string) ValidationResult {
	n := strings.TrimSpace(name)
	if len([]rune(n)) < NameMinLen {
		return invalidField("name", fmt.Sprintf("Name must be at least %d characters", NameMinLen))
	}
	if len([]rune(n)) > NameMaxLen {
		return invalidField("name", fmt.Sprintf("Name must be less than %d characters", NameMaxLen))
	}
	if crlfRegex.MatchString(n) {
		return invalidField("name", "Invalid name")
	}

	e := strings.TrimSpace(email)
	if e == "" || crlfRegex.MatchString(e) || !emailRegex.MatchString(e) {
		return invalidField("email", "Invalid email address")
	}

	m := strings.TrimSpace(message)
	if len([]rune(m)) < MessageMinLen {
		return invalidField("message", fmt.Sprintf("Message must be at least %d characters", MessageMinLen))
	}
	if len([]rune(m)) > MessageMaxLen {
		return invalidField("message", fmt.Sprintf("Message must be less than %d characters", MessageMaxLen))
	}

	return ValidationResult{Valid: true}
}
