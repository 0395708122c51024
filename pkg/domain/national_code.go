// Package domain holds domain primitives shared across modules. Values are
// validated at parse time so code past the trust boundary never re-checks them.
package domain

import (
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	dErrors "nidgate/pkg/domain-errors"
)

// NationalCodeLength is the number of digits in an Iranian national code.
const NationalCodeLength = 10

// PrefixLength is the number of leading digits that encode the birthplace.
const PrefixLength = 3

// Client-facing messages for malformed codes.
const (
	MsgNationalCodeLength = "The national code must be exactly 10 digits long."
	MsgNationalCodeDigits = "The national code must only contain digits."
)

// NationalCode is a well-formed national code: exactly ten ASCII digits.
// Well-formed says nothing about the checksum; that is a birthplace concern.
type NationalCode struct {
	value string
}

// digitFolder rewrites Extended Arabic-Indic (Persian) and Arabic-Indic digits
// to their ASCII equivalents. Everything else passes through untouched.
var digitFolder = runes.Map(func(r rune) rune {
	switch {
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	}
	return r
})

// ParseNationalCode validates raw input and returns a NationalCode.
// Length is checked in characters before content, so "۰۰۱۲۳۴۵۶۷۸" is ten
// characters and parses to "0012345678".
func ParseNationalCode(raw string) (NationalCode, error) {
	if utf8.RuneCountInString(raw) != NationalCodeLength {
		return NationalCode{}, dErrors.New(dErrors.CodeInvalidInput, MsgNationalCodeLength)
	}
	if !utf8.ValidString(raw) {
		return NationalCode{}, dErrors.New(dErrors.CodeInvalidInput, MsgNationalCodeDigits)
	}

	folded, _, err := transform.String(digitFolder, raw)
	if err != nil {
		return NationalCode{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, MsgNationalCodeDigits)
	}
	if len(folded) != NationalCodeLength {
		return NationalCode{}, dErrors.New(dErrors.CodeInvalidInput, MsgNationalCodeDigits)
	}
	for i := 0; i < len(folded); i++ {
		if folded[i] < '0' || folded[i] > '9' {
			return NationalCode{}, dErrors.New(dErrors.CodeInvalidInput, MsgNationalCodeDigits)
		}
	}
	return NationalCode{value: folded}, nil
}

// MustNationalCode parses raw and panics on failure. Tests only.
func MustNationalCode(raw string) NationalCode {
	code, err := ParseNationalCode(raw)
	if err != nil {
		panic(err)
	}
	return code
}

// String returns the ten ASCII digits.
func (c NationalCode) String() string {
	return c.value
}

// Prefix returns the birthplace prefix (first three digits).
func (c NationalCode) Prefix() string {
	if c.IsZero() {
		return ""
	}
	return c.value[:PrefixLength]
}

// Digit returns the numeric value of the digit at position i (0-indexed).
func (c NationalCode) Digit(i int) int {
	return int(c.value[i] - '0')
}

// IsZero reports whether c is the zero value.
func (c NationalCode) IsZero() bool {
	return c.value == ""
}
