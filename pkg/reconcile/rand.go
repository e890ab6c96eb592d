package reconcile

import (
	"crypto/rand"
	"encoding/binary"
)

// cryptoRandSource is the default RandSource, backed by crypto/rand.
type cryptoRandSource struct{}

// NewCryptoRandSource returns the default cryptographically secure
// RandSource used for peer-salt generation.
func NewCryptoRandSource() RandSource { return cryptoRandSource{} }

func (cryptoRandSource) Uint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// broken; there is no safe way to continue a protocol that
		// requires cryptographically secure salts, so this is the one
		// place in the package that panics.
		panic("reconcile: crypto/rand unavailable: " + err.Error())
	}
	return binary.LittleEndian.Uint64(buf[:])
}
