// Package common contains the fixed-size value types shared across gbas.
package common

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Lengths of addresses and hashes in bytes.
const (
	AddressLength = 20
	HashLength    = 32
)

// Hash represents the 32 byte Keccak256 hash of arbitrary data, and doubles
// as a raw 32 byte storage word.
type Hash [HashLength]byte

// BytesToHash sets b to hash. If b is larger than HashLength, b will be
// cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// BigToHash returns the hash of the right-aligned big-endian encoding of b.
func BigToHash(b *big.Int) Hash { return BytesToHash(b.Bytes()) }

// HexToHash parses a hex string (with or without 0x prefix) into a Hash.
func HexToHash(s string) Hash { return BytesToHash(fromHex(s)) }

// SetBytes sets the hash to the value of b, cropping from the left if needed.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the byte representation of the underlying hash.
func (h Hash) Bytes() []byte { return h[:] }

// Big converts the hash into a big integer.
func (h Hash) Big() *big.Int { return new(big.Int).SetBytes(h[:]) }

// Hex converts the hash to a 0x-prefixed hex string.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// IsZero reports whether the hash is the all-zero word.
func (h Hash) IsZero() bool { return h == Hash{} }

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) { return []byte(h.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(input []byte) error {
	return unmarshalFixedText("Hash", input, h[:])
}

// Address represents the 20 byte address of a gbas account.
type Address [AddressLength]byte

// BytesToAddress returns Address with value b. If b is larger than
// AddressLength, b will be cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress parses a hex string (with or without 0x prefix) into an Address.
func HexToAddress(s string) Address { return BytesToAddress(fromHex(s)) }

// IsHexAddress reports whether s can be parsed as a 20 byte hex address.
func IsHexAddress(s string) bool {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 2*AddressLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// SetBytes sets the address to the value of b, cropping from the left if needed.
func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the byte representation of the underlying address.
func (a Address) Bytes() []byte { return a[:] }

// Hash converts the address into a Hash by left-padding it with zeros.
func (a Address) Hash() Hash { return BytesToHash(a[:]) }

// Hex returns a 0x-prefixed hex string representation of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(input []byte) error {
	return unmarshalFixedText("Address", input, a[:])
}

func fromHex(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

func unmarshalFixedText(typname string, input, out []byte) error {
	raw := strings.TrimPrefix(string(input), "0x")
	if len(raw) != 2*len(out) {
		return fmt.Errorf("hex string has length %d, want %d for %s", len(raw), 2*len(out), typname)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("invalid hex string for %s: %v", typname, err)
	}
	copy(out, b)
	return nil
}
