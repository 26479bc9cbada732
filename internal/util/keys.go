package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// maxRawKey keeps provider keys short enough for every backend.
const maxRawKey = 200

// Key returns the provider key for key in namespace ns.
// Raw keys are stored as "pk:<ns>:r:<key>"; keys longer than maxRawKey become
// "pk:<ns>:h:<sha256 prefix>". The tags keep the two shapes disjoint.
func Key(ns, key string) string {
	if len(key) > maxRawKey {
		sum := sha256.Sum256([]byte(key))
		return "pk:" + ns + ":h:" + hex.EncodeToString(sum[:16])
	}
	return "pk:" + ns + ":r:" + key
}
