// Package phone normalizes user-supplied phone numbers to E.164.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers written without a country code.
const DefaultRegion = "US"

var ErrInvalid = errors.New("invalid phone number")

// Normalize parses raw and returns it in E.164 form.
func Normalize(raw string) (string, error) {
	return NormalizeIn(raw, DefaultRegion)
}

// NormalizeIn is Normalize with an explicit default region.
func NormalizeIn(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalid
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", ErrInvalid
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalid
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Valid reports whether raw is a parseable, valid phone number.
func Valid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}
