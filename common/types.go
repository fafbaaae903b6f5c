package common

import (
	"encoding/hex"
	"fmt"
)

const (
	// AddressLength is the expected length of an account address in bytes.
	AddressLength = 20

	// HashLength is the expected length of an identifier hash in bytes.
	HashLength = 32
)

// Bytes is an alias for []byte used across the state keys and values.
type Bytes []byte

// Address represents the 20 byte address of an account, a recipient target,
// or an allocator instance.
type Address [AddressLength]byte

// Hash represents a 32 byte identifier, e.g. a recipient id.
type Hash [HashLength]byte

// BytesToAddress returns an Address with value b. If b is larger than
// AddressLength, b is cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress parses a hex string (with or without the 0x prefix) into an
// Address.
func HexToAddress(s string) Address {
	return BytesToAddress(FromHex(s))
}

// SetBytes sets the address to the value of b, cropping from the left if
// needed.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the hex string representation of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

// IsZero reports whether the address is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// BytesToHash returns a Hash with value b, cropped from the left if needed.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// SetBytes sets the hash to the value of b, cropping from the left if needed.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the hex string representation of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// IsZero reports whether the hash is all zeroes.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// FromHex decodes a hex string, tolerating the 0x prefix and odd length.
func FromHex(s string) []byte {
	if len(s) > 1 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cpy := make([]byte, len(b))
	copy(cpy, b)
	return cpy
}

// ParseAddress parses a hex address and reports malformed input, unlike
// HexToAddress which silently yields the zero address.
func ParseAddress(s string) (Address, error) {
	b := FromHex(s)
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("invalid address %q", s)
	}
	return BytesToAddress(b), nil
}

// ParseHash parses a hex encoded 32 byte identifier.
func ParseHash(s string) (Hash, error) {
	b := FromHex(s)
	if len(b) != HashLength {
		return Hash{}, fmt.Errorf("invalid hash %q", s)
	}
	return BytesToHash(b), nil
}
