// Package validators holds the client-side form checks run before a
// request is sent. Failures are apperr ValidationErrors.
package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"merchant/apperr"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ]{7,15}$`)
)

func Required(field, val string) error {
	if strings.TrimSpace(val) == "" {
		return apperr.Validation(field, fmt.Sprintf("%s is required", field))
	}
	return nil
}

func ValidateString(field, val string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(strings.TrimSpace(val))
	if length < minLen || length > maxLen {
		return apperr.Validation(field, fmt.Sprintf("%s must be between %d and %d characters", field, minLen, maxLen))
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return apperr.Validation("email", "invalid email format")
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(strings.TrimSpace(phone)) {
		return apperr.Validation("phone", "phone must be 7 to 15 digits")
	}
	return nil
}

// ParsePrice accepts "4.50" style input and rejects zero, negatives and more
// than two decimal places.
func ParsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, apperr.Validation("price", "price must be a number")
	}
	if !d.IsPositive() {
		return decimal.Zero, apperr.Validation("price", "price must be greater than zero")
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, apperr.Validation("price", "price can have at most two decimal places")
	}
	return d, nil
}

// First returns the first non-nil error, so a form reports one problem at a time.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
