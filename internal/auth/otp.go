package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPLength - длина кода подтверждения email
const OTPLength = 6

var otpMax = big.NewInt(1_000_000)

// GenerateOTP генерирует 6-значный числовой одноразовый код.
// Код криптографически случайный, ведущие нули сохраняются.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
