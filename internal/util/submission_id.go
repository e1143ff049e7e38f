package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// SubmissionID derives a stable submission identifier from a client supplied
// idempotency key. The same (user, quiz, key) triple always yields the same ID,
// so a retried request lands on the already stored submission. Without a key a
// fresh ULID is returned.
func SubmissionID(userID, quizID, idempotencyKey string) string {
	if idempotencyKey == "" {
		return NewULID()
	}
	h := sha256.New()
	for _, part := range []string{userID, quizID, idempotencyKey} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:40]
}
