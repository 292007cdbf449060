package mailgate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContactForm(t *testing.T) {
	validName := "John Doe"
	validEmail := "j@example.com"
	validMessage := "A message long enough."

	cases := []struct {
		name      string
		inName    string
		inEmail   string
		inMessage string
		wantField string
		wantErr   string
	}{
		{
			name:   "valid submission",
			inName: validName, inEmail: validEmail, inMessage: validMessage,
		},
		{
			name:   "missing name",
			inName: "", inEmail: validEmail, inMessage: validMessage,
			wantField: "name", wantErr: "Name must be at least 2 characters",
		},
		{
			name:   "one-char name",
			inName: "A", inEmail: validEmail, inMessage: validMessage,
			wantField: "name", wantErr: "Name must be at least 2 characters",
		},
		{
			name:   "whitespace-only name",
			inName: "   ", inEmail: validEmail, inMessage: validMessage,
			wantField: "name", wantErr: "Name must be at least 2 characters",
		},
		{
			name:   "51-char name",
			inName: strings.Repeat("a", 51), inEmail: validEmail, inMessage: validMessage,
			wantField: "name", wantErr: "Name must be less than 50 characters",
		},
		{
			name:   "newline in name",
			inName: "John\nDoe", inEmail: validEmail, inMessage: validMessage,
			wantField: "name", wantErr: "Invalid name",
		},
		{
			name:   "carriage return in name",
			inName: "John\rDoe", inEmail: validEmail, inMessage: validMessage,
			wantField: "name", wantErr: "Invalid name",
		},
		{
			name:   "missing email",
			inName: validName, inEmail: "", inMessage: validMessage,
			wantField: "email", wantErr: "Invalid email address",
		},
		{
			name:   "malformed email",
			inName: validName, inEmail: "not-an-email", inMessage: validMessage,
			wantField: "email", wantErr: "Invalid email address",
		},
		{
			name:   "email without tld dot",
			inName: validName, inEmail: "a@b", inMessage: validMessage,
			wantField: "email", wantErr: "Invalid email address",
		},
		{
			name:   "crlf in email",
			inName: validName, inEmail: "a@b.com\r\nBcc: x@y.com", inMessage: validMessage,
			wantField: "email", wantErr: "Invalid email address",
		},
		{
			name:   "missing message",
			inName: validName, inEmail: validEmail, inMessage: "",
			wantField: "message", wantErr: "Message must be at least 10 characters",
		},
		{
			name:   "short message after trim",
			inName: validName, inEmail: validEmail, inMessage: "  hello   ",
			wantField: "message", wantErr: "Message must be at least 10 characters",
		},
		{
			name:   "1001-char message",
			inName: validName, inEmail: validEmail, inMessage: strings.Repeat("a", 1001),
			wantField: "message", wantErr: "Message must be less than 1000 characters",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateContactForm(tc.inName, tc.inEmail, tc.inMessage)
			if tc.wantField == "" {
				assert.True(t, res.Valid)
				assert.Empty(t, res.Error)
				assert.Empty(t, res.Field)
				return
			}
			assert.False(t, res.Valid)
			assert.Equal(t, tc.wantField, res.Field)
			assert.Equal(t, tc.wantErr, res.Error)
		})
	}
}

func TestValidateContactFormBoundaries(t *testing.T) {
	email := "j@example.com"
	okMsg := strings.Repeat("m", MessageMinLen)

	assert.True(t, ValidateContactForm(strings.Repeat("a", NameMinLen), email, okMsg).Valid)
	assert.True(t, ValidateContactForm(strings.Repeat("a", NameMaxLen), email, okMsg).Valid)
	assert.True(t, ValidateContactForm("John Doe", email, strings.Repeat("m", MessageMaxLen)).Valid)
}

func TestValidateContactFormNameCheckOrder(t *testing.T) {
	email := "j@example.com"
	msg := "A message long enough."

	// Length runs before the control-character check: a too-short name with
	// an embedded newline reports the length error, not "Invalid name".
	res := ValidateContactForm("\n", email, msg)
	assert.Equal(t, "name", res.Field)
	assert.Equal(t, "Name must be at least 2 characters", res.Error)

	res = ValidateContactForm("a\n"+strings.Repeat("a", 50), email, msg)
	assert.Equal(t, "name", res.Field)
	assert.Equal(t, "Name must be less than 50 characters", res.Error)

	// Only once length is acceptable does the control-character check fire.
	res = ValidateContactForm("John\nDoe", email, msg)
	assert.Equal(t, "Invalid name", res.Error)
}

func TestValidateContactFormFirstFailureWins(t *testing.T) {
	// Every field is bad; only name is reported.
	res := ValidateContactForm("A", "nope", "short")
	assert.Equal(t, "name", res.Field)

	// Name fine, email and message bad; only email is reported.
	res = ValidateContactForm("John Doe", "nope", "short")
	assert.Equal(t, "email", res.Field)
}
