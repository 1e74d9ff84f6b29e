// Package randid generates short random identifiers for locally created
// records (temporary task ids, queue diagnostics).
package randid

import "crypto/rand"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random lowercase-alphanumeric string of the given
// length. Panics only if the platform CSPRNG is unavailable.
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic("randid: crypto/rand unavailable: " + err.Error())
	}

	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
