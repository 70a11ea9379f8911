package referral

import (
	"crypto/rand"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the length of generated referral codes.
const CodeLength = 6

// NewCode generates a random referral code over A-Z0-9. Uniqueness is
// enforced by the users.referral_code unique index; callers retry on
// collision.
func NewCode() string {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in far worse trouble
		// than a referral code.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}
