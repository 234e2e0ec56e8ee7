package application

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/arcrobot/admin_backend/internal/domain"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// Column sizes of the orders table.
const (
	maxNameLen   = 255
	maxPhoneLen  = 25
	maxEmailLen  = 100
	maxReasonLen = 1024
)

// Validator checks the fields of public forms.
type Validator struct{}

func (v *Validator) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email %q is not valid", email)
	}
	return nil
}

// ValidatePhone accepts 7 to 15 digits with an optional leading +, ignoring
// spaces, dashes and parentheses.
func (v *Validator) ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone_number is required")
	}
	clean := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	if !phoneRegex.MatchString(clean) {
		return fmt.Errorf("phone_number %q must have between 7 and 15 digits", phone)
	}
	return nil
}

func (v *Validator) ValidateLength(value, field string, limit int) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%s cannot be longer than %d characters", field, limit)
	}
	return nil
}

// ValidateConsult checks a consultation request and joins every problem
// into one ErrInvalidInput error.
func (v *Validator) ValidateConsult(name, phone, email, reason string) error {
	errs := []error{
		v.ValidateLength(name, "name", maxNameLen),
		v.ValidatePhone(phone),
		v.ValidateLength(phone, "phone_number", maxPhoneLen),
		v.ValidateEmail(email),
		v.ValidateLength(email, "email", maxEmailLen),
		v.ValidateLength(reason, "reason", maxReasonLen),
	}
	if err := errors.Join(dedupe(errs)...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// dedupe drops nils and repeated messages ("x is required" from two checks).
func dedupe(errs []error) []error {
	seen := make(map[string]bool, len(errs))
	out := errs[:0]
	for _, err := range errs {
		if err == nil || seen[err.Error()] {
			continue
		}
		seen[err.Error()] = true
		out = append(out, err)
	}
	return out
}
