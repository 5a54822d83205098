package store

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ulidEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	ulidEntropyMu sync.Mutex
)

func NewID() string {
	ulidEntropyMu.Lock()
	defer ulidEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// ShortCode returns the lowercase tail of a fresh ULID. Callers that need
// uniqueness must check for collisions.
func ShortCode(n int) string {
	id := strings.ToLower(NewID())
	if n <= 0 || n > len(id) {
		return id
	}
	return id[len(id)-n:]
}
