package encoding

import (
	"github.com/cespare/xxhash/v2"
)

// Serializable provides a clean, simple interface for serializing and deserializing values.
type Serializable interface {
	Serialize() ([]byte, error)
	Deserialize([]byte) error
}

// Fingerprint hashes the serialized form of s. Values with equal serialized
// forms have equal fingerprints.
func Fingerprint(s Serializable) (uint64, error) {
	data, err := s.Serialize()
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
