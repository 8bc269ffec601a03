// Package crypto implements the hashing primitives used for storage slot
// derivation.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/bas-network/gbas/common"
)

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input data,
// converting it to a common.Hash.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	copy(h[:], Keccak256(data...))
	return h
}
