package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "stage:<digest>" where the digest covers the JSON
// encoding of parts, one value per line. Option structs hash by their
// exported fields, so adding a field changes every key of that stage.
func hashKey(stage string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		// Encoding the option structs cannot fail.
		_ = enc.Encode(p)
	}
	return stage + ":" + hex.EncodeToString(h.Sum(nil))
}
