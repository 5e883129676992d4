package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID string. ULIDs encode their creation time in the
// leading bits, so notification ids sort chronologically, which the retention
// sweep relies on when scanning by age.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
