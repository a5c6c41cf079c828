package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashKey digests a logical key and prefixes the deployment namespace, so a
// shared Redis can be safely multi-tenant. Callers never see the hashed form.
func hashKey(namespace, key string) string {
	sum := sha256.Sum256([]byte(key))
	return namespace + ":" + hex.EncodeToString(sum[:])
}

// categoryKey names the index set holding all hashed keys of one category.
func categoryKey(namespace, category string) string {
	return namespace + ":cat:" + category
}
