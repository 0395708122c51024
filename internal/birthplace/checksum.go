package birthplace

import (
	"strings"

	"nidgate/pkg/domain"
)

// ValidChecksum reports whether the control digit (the tenth) agrees with the
// first nine digits. Codes made of a single repeated digit are always invalid.
//
// The first nine digits are weighted 10 down to 2; with r the weighted sum mod
// 11, the control digit must equal r when r < 2 and 11-r otherwise.
func ValidChecksum(code domain.NationalCode) bool {
	if code.IsZero() {
		return false
	}
	s := code.String()
	if strings.Count(s, s[:1]) == len(s) {
		return false
	}

	sum := 0
	for i := 0; i < domain.NationalCodeLength-1; i++ {
		sum += code.Digit(i) * (domain.NationalCodeLength - i)
	}
	r := sum % 11
	control := code.Digit(domain.NationalCodeLength - 1)
	if r < 2 {
		return control == r
	}
	return control == 11-r
}

// ControlDigit computes the control digit for nine leading digits.
// It panics if first9 is not nine ASCII digits.
func ControlDigit(first9 string) int {
	if len(first9) != domain.NationalCodeLength-1 {
		panic("birthplace: ControlDigit needs exactly nine digits")
	}
	sum := 0
	for i := 0; i < len(first9); i++ {
		d := first9[i]
		if d < '0' || d > '9' {
			panic("birthplace: ControlDigit needs ASCII digits")
		}
		sum += int(d-'0') * (domain.NationalCodeLength - i)
	}
	r := sum % 11
	if r < 2 {
		return r
	}
	return 11 - r
}
