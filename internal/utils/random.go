package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSessionID returns a cryptographically random 32-hex-character editor
// session id.  Session ids are capability tokens scoped to one operator, so
// they must be unguessable.
func NewSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
