package leaverequest

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// Fingerprint derives the stable identity of a (applicant, period) pair.
// Two submissions with the same applicant and byte-identical normalized
// instants collide on purpose: the identity is the dedup key and the
// primary key of the stored record. The encoding is URL-safe so the
// identity can ride in mail action links unescaped.
func Fingerprint(applicantID string, from, to time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d", applicantID, from.UnixMilli(), to.UnixMilli())))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
