package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseNationalCode checks that parsing never panics and that every
// accepted value is ten ASCII digits that parse back to itself.
func FuzzParseNationalCode(f *testing.F) {
	f.Add("")
	f.Add("0012345679")
	f.Add("۰۰۱۲۳۴۵۶۷۹")
	f.Add("not-a-code")
	f.Add("'; DROP TABLE birthplace_codes;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("0012345679\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		code, err := ParseNationalCode(input)
		if err != nil {
			return
		}

		s := code.String()
		if len(s) != NationalCodeLength {
			t.Fatalf("accepted code has %d bytes", len(s))
		}
		for i := 0; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				t.Fatalf("accepted code contains non-ascii digit %q", s[i])
			}
		}

		roundTrip, err := ParseNationalCode(s)
		if err != nil {
			t.Fatalf("accepted code failed round-trip: %v", err)
		}
		if roundTrip != code {
			t.Fatal("round-trip changed the code")
		}

		if !utf8.ValidString(input) {
			t.Error("non-UTF8 input was accepted")
		}
	})
}
