package kitchen

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh shopping item id. Ids must be UUID v4 shaped
// because the remote store validates them.
type IDGenerator func() string

// NewID returns a random v4 UUID. If the system entropy source fails it
// falls back to a v4-shaped id from math/rand.
func NewID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fallbackID(rand.Uint64)
	}
	return id.String()
}

// fallbackID builds a v4-shaped id from a non-cryptographic source. The
// version nibble is 4 and the variant bits are 10.
func fallbackID(next func() uint64) string {
	var b uuid.UUID
	binary.BigEndian.PutUint64(b[:8], next())
	binary.BigEndian.PutUint64(b[8:], next())
	b[6] = b[6]&0x0f | 0x40
	b[8] = b[8]&0x3f | 0x80
	return b.String()
}
