package task

import (
	"crypto/rand"
	"strings"
)

// Base62 alphabet for embedded task identifiers.
const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// IDLength is the length of generated task IDs.
const IDLength = 12

// maxID bounds stored IDs accepted from the request path.
const maxID = 64

// largest multiple of 62 that fits in a byte; higher bytes are redrawn
const byteCutoff = 248

// NewID generates a random task ID. Task IDs only need to be unique within
// their owner's task list.
func NewID() (string, error) {
	var b strings.Builder
	b.Grow(IDLength)
	buf := make([]byte, IDLength*2)
	for b.Len() < IDLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, v := range buf {
			if v >= byteCutoff {
				continue
			}
			b.WriteByte(base62Chars[int(v)%len(base62Chars)])
			if b.Len() == IDLength {
				break
			}
		}
	}
	return b.String(), nil
}

// IsValidID reports whether id can name a stored task: non-empty, bounded
// and base62 only.
func IsValidID(id string) bool {
	if id == "" || len(id) > maxID {
		return false
	}
	return strings.Trim(id, base62Chars) == ""
}
