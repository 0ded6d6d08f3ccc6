package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateOTP - код всегда ровно 6 цифр, включая ведущие нули
func TestGenerateOTP(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, OTPLength)

		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9', "unexpected symbol %q in otp %q", r, otp)
		}
	}
}
