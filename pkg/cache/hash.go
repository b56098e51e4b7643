package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlacementKey implements [Keyer].
func (DefaultKeyer) PlacementKey(treeHash, profilesHash string) string {
	return hashKey("placement", treeHash, profilesHash)
}

// WalkthroughKey implements [Keyer].
func (DefaultKeyer) WalkthroughKey(treeHash, start, configHash string) string {
	return hashKey("walkthrough", treeHash, start, configHash)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(sourceHash, format string) string {
	return hashKey("artifact", sourceHash, format)
}

// hashKey hashes the JSON encoding of parts and prefixes the kind.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashJSON returns the hash of v's JSON encoding. Values that cannot be
// encoded hash to the empty string.
func HashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return Hash(data)
}
