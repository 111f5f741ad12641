package random

import (
	"crypto/rand"
	"encoding/hex"
)

// RandString returns n hex characters from a CSPRNG. Used for session IDs.
func RandString(n int) string {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		panic("random: failed to read entropy: " + err.Error())
	}
	return hex.EncodeToString(buf)[:n]
}
