package mailgate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Issue is one structured validation failure from the schema layer.
type Issue struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

// SchemaError collects every failing field of a submission. Unlike the
// first-failure ValidateContactForm, the schema layer reports all issues so
// the client can highlight each bad field at once.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 1 {
		return "validation failed: " + e.Issues[0].Message
	}
	return fmt.Sprintf("validation failed: %d issues", len(e.Issues))
}

var (
	schemaValidator = validator.New()

	// Tags are built from limits.go so this layer can never drift from the
	// dependency-free validator.
	nameMinTag    = fmt.Sprintf("required,min=%d", NameMinLen)
	nameMaxTag    = fmt.Sprintf("max=%d", NameMaxLen)
	messageMinTag = fmt.Sprintf("required,min=%d", MessageMinLen)
	messageMaxTag = fmt.Sprintf("max=%d", MessageMaxLen)
)

// ValidateSubmission runs the schema layer over a submission. Returns nil on
// success or a *SchemaError carrying the full issue list.
func ValidateSubmission(req *ContactRequest) error {
	var issues []Issue

	name := strings.TrimSpace(req.Name)
	switch {
	case schemaValidator.Var(name, nameMinTag) != nil:
		issues = append(issues, Issue{
			Message: fmt.Sprintf("Name must be at least %d characters", NameMinLen),
			Path:    "name",
		})
	case schemaValidator.Var(name, nameMaxTag) != nil:
		issues = append(issues, Issue{
			Message: fmt.Sprintf("Name must be less than %d characters", NameMaxLen),
			Path:    "name",
		})
	case strings.ContainsAny(name, "\r\n"):
		issues = append(issues, Issue{Message: "Invalid name", Path: "name"})
	}

	email := strings.TrimSpace(req.Email)
	if schemaValidator.Var(email, "required,email") != nil || strings.ContainsAny(email, "\r\n") {
		issues = append(issues, Issue{Message: "Invalid email address", Path: "email"})
	}

	message := strings.TrimSpace(req.Message)
	switch {
	case schemaValidator.Var(message, messageMinTag) != nil:
		issues = append(issues, Issue{
			Message: fmt.Sprintf("Message must be at least %d characters", MessageMinLen),
			Path:    "message",
		})
	case schemaValidator.Var(message, messageMaxTag) != nil:
		issues = append(issues, Issue{
			Message: fmt.Sprintf("Message must be less than %d characters", MessageMaxLen),
			Path:    "message",
		})
	}

	if len(issues) > 0 {
		return &SchemaError{Issues: issues}
	}
	return nil
}
