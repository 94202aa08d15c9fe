// Package sharecode generates the short public codes that grant read access
// to a shared quiz. Codes are secrets, so the random source is crypto/rand.
package sharecode

import (
	"crypto/rand"
	"math/big"
)

// Alphabet is uppercase letters plus digits with the visually ambiguous
// characters 0, O, I, 1 and L removed. 31 characters, so a 6-char code has
// 31^6 (~887M) combinations.
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// DefaultLength is the length of newly issued codes. The stored column allows
// up to 8 characters.
const DefaultLength = 6

// Generate returns a uniformly random code of the given length drawn from
// Alphabet. length <= 0 falls back to DefaultLength.
func Generate(length int) string {
	if length <= 0 {
		length = DefaultLength
	}
	max := big.NewInt(int64(len(Alphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// there is no usable fallback for a secret token.
			panic(err)
		}
		code[i] = Alphabet[n.Int64()]
	}
	return string(code)
}
