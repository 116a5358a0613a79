package payments

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const hashField = "hash"

// Sign computes the gateway hash: every value except "hash", concatenated in
// field order with no delimiter, followed by the integration key, hashed with
// SHA-512 and rendered as uppercase hex.
func Sign(fields Fields, integrationKey string) string {
	h := sha512.New()
	for _, f := range fields {
		if f.Key == hashField {
			continue
		}
		h.Write([]byte(f.Value))
	}
	h.Write([]byte(integrationKey))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// Verify recomputes the hash over the received fields and compares it with
// their "hash" value.
func Verify(fields Fields, integrationKey string) bool {
	got, ok := fields.Get(hashField)
	if !ok {
		return false
	}
	want := Sign(fields, integrationKey)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
