package randutil

import (
	"crypto/rand"
	"log/slog"
	"math/big"
)

// KeyAlphabet matches the lowercase keys hastebin-style servers hand out.
const KeyAlphabet = "abcdefghijklmnopqrstuvwxyz"

// RandKey generates a cryptographically random paste key of length n
// using an unbiased selection from KeyAlphabet.
func RandKey(n int) string {
	result := make([]byte, n)
	max := big.NewInt(int64(len(KeyAlphabet)))

	for i := range result {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			slog.Error("crypto/rand failed", "error", err)
			result[i] = KeyAlphabet[0]
			continue
		}
		result[i] = KeyAlphabet[num.Int64()]
	}
	return string(result)
}
