package audit

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// SubjectKeySize is the length of generated subject keys.
const SubjectKeySize = 32

// Action names the operation an event records.
type Action string

const (
	ActionValidate Action = "birthplace.validate"
	ActionLookup   Action = "birthplace.lookup"
)

// Event is an operational record of one validation or lookup. It never
// carries the raw national code; SubjectHash is its keyed digest.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	Outcome     string    `json:"outcome"`
	Prefix      string    `json:"prefix"`
	SubjectHash string    `json:"subject_hash"`
	RequestID   string    `json:"request_id,omitempty"`
}

// HashSubject returns the hex HMAC-SHA256 of a national code under key.
// The digest is stable for a given key, so events about the same code
// correlate, but it cannot be reversed by enumerating codes without the key.
func HashSubject(key []byte, code string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewSubjectKey returns a random key for HashSubject.
func NewSubjectKey() []byte {
	key := make([]byte, SubjectKeySize)
	// crypto/rand.Read never returns an error.
	_, _ = rand.Read(key)
	return key
}
