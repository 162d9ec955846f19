package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	PNRLength   = 6
)

// NewPNR draws a 6 character uppercase alphanumeric code.
func NewPNR() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(pnrAlphabet)))
	for i := 0; i < PNRLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate pnr: %w", err)
		}
		b.WriteByte(pnrAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizePNR uppercases and validates a user supplied code.
func NormalizePNR(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != PNRLength {
		return "", NewValidationError("pnr", "must be 6 characters")
	}
	for _, r := range s {
		if !strings.ContainsRune(pnrAlphabet, r) {
			return "", NewValidationError("pnr", "must be alphanumeric")
		}
	}
	return s, nil
}
