package zkcrypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// SaltSize is the size of a commitment salt.
const SaltSize = 32

// Salt blinds a hand commitment. A salt is drawn fresh for every published
// commitment and discarded once the commitment is superseded.
type Salt [SaltSize]byte

// NewSalt reads a fresh salt from r, or from crypto/rand when r is nil.
func NewSalt(r io.Reader) (Salt, error) {
	if r == nil {
		r = rand.Reader
	}
	var s Salt
	if _, err := io.ReadFull(r, s[:]); err != nil {
		return Salt{}, fmt.Errorf("read salt: %w", err)
	}
	return s, nil
}

// SaltFromBytes copies a 32-byte slice into a Salt.
func SaltFromBytes(b []byte) (Salt, error) {
	var s Salt
	if len(b) != SaltSize {
		return s, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(b))
	}
	copy(s[:], b)
	return s, nil
}

// ParseSalt decodes a hex salt.
func ParseSalt(str string) (Salt, error) {
	b, err := HexToBytes(str)
	if err != nil {
		return Salt{}, err
	}
	return SaltFromBytes(b)
}

func (s Salt) Bytes() []byte { return s[:] }

func (s Salt) String() string { return BytesToHex(s[:]) }

func (s Salt) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Salt) UnmarshalText(text []byte) error {
	parsed, err := ParseSalt(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Commit returns keccak256(handBytes || salt), the public hand commitment.
func Commit(handBytes []byte, salt Salt) Hash {
	return Keccak256(handBytes, salt[:])
}
