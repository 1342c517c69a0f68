package mail

import (
	"errors"
	"fmt"
	"strings"
)

// Subject is the subject line of every suggestion email.
const Subject = "New Suggestion from Emotion Recognition App"

// ErrMissingFields is returned when any form field is blank.
var ErrMissingFields = errors.New("please fill all fields")

// Suggestion is one contact-form submission.
type Suggestion struct {
	Name  string
	Email string
	Phone string
	Text  string
}

// Validate requires every field to be non-empty after trimming.
func (s Suggestion) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(s.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(s.Text) == "" {
		missing = append(missing, "suggestion")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

// Body renders the plain-text email body. The suggestion text is kept verbatim.
func (s Suggestion) Body() string {
	return fmt.Sprintf("👤 Name: %s\n📧 Email: %s\n📱 Phone: %s\n💡 Suggestion:\n%s", s.Name, s.Email, s.Phone, s.Text)
}
