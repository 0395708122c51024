package birthplace

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"nidgate/pkg/domain"
)

func TestValidChecksum(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "remainder above one", code: "0012345679", want: true},
		{name: "another valid code", code: "0499370899", want: true},
		{name: "remainder zero", code: "0010000070", want: true},
		{name: "remainder one", code: "0010000021", want: true},
		{name: "control digit off by one", code: "0012345678", want: false},
		{name: "remainder zero with wrong digit", code: "0010000071", want: false},
		{name: "remainder one with wrong digit", code: "0010000020", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidChecksum(domain.MustNationalCode(tt.code)))
		})
	}
}

func TestValidChecksumRejectsRepeatedDigits(t *testing.T) {
	// 0000000000 and 1111111111 satisfy the arithmetic but are still invalid.
	for d := 0; d <= 9; d++ {
		code := strings.Repeat(fmt.Sprint(d), domain.NationalCodeLength)
		assert.False(t, ValidChecksum(domain.MustNationalCode(code)), code)
	}
}

func TestValidChecksumZeroValue(t *testing.T) {
	assert.False(t, ValidChecksum(domain.NationalCode{}))
}

func TestControlDigitAgreesWithValidChecksum(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		first9 := randomDigits(rng, 9)
		code := fmt.Sprintf("%s%d", first9, ControlDigit(first9))
		if strings.Count(code, code[:1]) == len(code) {
			continue
		}
		assert.True(t, ValidChecksum(domain.MustNationalCode(code)), code)

		wrong := fmt.Sprintf("%s%d", first9, (ControlDigit(first9)+1)%10)
		assert.False(t, ValidChecksum(domain.MustNationalCode(wrong)), wrong)
	}
}

func TestControlDigitPanicsOnBadInput(t *testing.T) {
	assert.Panics(t, func() { ControlDigit("12345678") })
	assert.Panics(t, func() { ControlDigit("12345678x") })
}

func randomDigits(rng *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + rng.IntN(10)))
	}
	return b.String()
}
