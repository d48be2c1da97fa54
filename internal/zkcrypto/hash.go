package zkcrypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// HashSize is the size of every digest used by the protocol.
const HashSize = 32

// Hash is a 32-byte digest. Commitments are Keccak-256 digests; journal and
// claim digests are SHA-256 digests. The two are never interchangeable.
type Hash [HashSize]byte

// Keccak256 hashes the concatenation of parts with legacy Keccak-256 (the
// pre-NIST padding used by the ledger and the guest programs).
func Keccak256(parts ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Hash
	h.Sum(out[:0])
	return out
}

// Sha256 hashes the concatenation of parts with SHA-256.
func Sha256(parts ...[]byte) Hash {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Hash
	h.Sum(out[:0])
	return out
}

// HashFromBytes copies a 32-byte slice into a Hash.
func HashFromBytes(b []byte) (Hash, error) {
	var out Hash
	if len(b) != HashSize {
		return out, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// ParseHash decodes a hex string (optional 0x prefix) into a Hash.
func ParseHash(s string) (Hash, error) {
	b, err := HexToBytes(s)
	if err != nil {
		return Hash{}, err
	}
	return HashFromBytes(b)
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) IsZero() bool { return h == Hash{} }

// String returns the unprefixed lowercase hex form.
func (h Hash) String() string { return BytesToHex(h[:]) }

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
