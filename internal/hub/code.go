package hub

import (
	"crypto/rand"
	"math/big"
)

// codeAlphabet omits I and O, which read ambiguously on a party screen.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// codeLength keeps codes speakable across the room.
const codeLength = 4

// generateCode produces one candidate room code. Uniqueness against live
// rooms is the hub loop's job, since it owns the registry map.
func generateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
