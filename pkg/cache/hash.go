package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a namespaced cache key of the form prefix:hash(parts...).
// The parts are JSON-marshaled before hashing, so any two artifact requests
// that differ in source, format or options land on distinct keys. The full
// 256-bit digest is kept; truncating would trade collision resistance for
// nothing.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the SHA-256 digest of data as a 64-character hex string. It
// is the content hash used to identify diagram source in artifact keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
