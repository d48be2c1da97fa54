// Package seal builds the 36-byte proof object submitted alongside a journal.
//
// A real deployment carries a Groth16 seal produced by the prover. The mock
// seal built here carries a claim digest shaped like a RISC Zero ReceiptClaim
// digest, which a permissive verifier recomputes from (program id, journal).
package seal

import (
	"encoding/hex"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"zkuno/internal/journal"
	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

const (
	SelectorSize = 4
	Size         = SelectorSize + zkcrypto.HashSize
)

// These constants must stay byte-identical to the verifier's copies.
var (
	TagOutput       = mustHash("77eafeb3dfc34a1c6b445d3ef26d12322ea4847240140a9af822085f75dc4ea0")
	TagClaim        = mustHash("cb1fefcd6dda1c3c7491b30922f70bc05ecffff6b22e736178069f1451487264")
	PostStateHalted = mustHash("a3acc27126038027" + "81a2ae6d4456286e" + "7379117a74e21088" + "28b6b48e5aab3e0b")

	// DefaultSelector is the Groth16 verifier selector.
	DefaultSelector = Selector{0x73, 0xc4, 0x57, 0xba}
)

// Selector routes a seal to a verifier implementation.
type Selector [SelectorSize]byte

func (s Selector) String() string { return hex.EncodeToString(s[:]) }

// ParseSelector decodes a 4-byte hex selector.
func ParseSelector(str string) (Selector, error) {
	b, err := zkcrypto.HexToBytes(str)
	if err != nil {
		return Selector{}, errorsmod.Wrapf(types.ErrMalformedInput, "selector: %v", err)
	}
	if len(b) != SelectorSize {
		return Selector{}, errorsmod.Wrapf(types.ErrMalformedInput, "selector must be %d bytes, got %d", SelectorSize, len(b))
	}
	var s Selector
	copy(s[:], b)
	return s, nil
}

// ProgramIDs holds the image id of each guest program.
type ProgramIDs struct {
	Commit  zkcrypto.Hash `json:"commit"`
	Play    zkcrypto.Hash `json:"play"`
	Draw    zkcrypto.Hash `json:"draw"`
	Declare zkcrypto.Hash `json:"declare"`
}

// DefaultProgramIDs returns the image ids of the reference guest builds.
func DefaultProgramIDs() ProgramIDs {
	return ProgramIDs{
		Commit:  mustHash("b721644795bece69d95e975212f2d96cfb9df12127e8b36538aba657b7cc3c08"),
		Play:    mustHash("0184e7526129c93e6a6cfa22e826954de3f598574dd5b9279293db3a7f74c962"),
		Draw:    mustHash("caa5c9752b0863132d41ac6a21c5b3715e3ac319496d9936fe24b76592ca7067"),
		Declare: mustHash("f3158127cfb81368584b801eaa5c5e1b889b5b4c27ed060da6edfc3bcb02b373"),
	}
}

// For returns the program id that attests journals of the given kind.
func (p ProgramIDs) For(kind journal.Kind) (zkcrypto.Hash, error) {
	switch kind {
	case journal.KindCommit:
		return p.Commit, nil
	case journal.KindPlay:
		return p.Play, nil
	case journal.KindDraw:
		return p.Draw, nil
	case journal.KindDeclare:
		return p.Declare, nil
	default:
		return zkcrypto.Hash{}, errorsmod.Wrapf(types.ErrMalformedInput, "no program id for journal kind %q", kind)
	}
}

// Seal is selector || claim_digest.
type Seal [Size]byte

func (s Seal) Selector() Selector {
	var out Selector
	copy(out[:], s[:SelectorSize])
	return out
}

func (s Seal) ClaimDigest() zkcrypto.Hash {
	var out zkcrypto.Hash
	copy(out[:], s[SelectorSize:])
	return out
}

func (s Seal) Bytes() []byte { return s[:] }

func (s Seal) String() string { return hex.EncodeToString(s[:]) }

func (s Seal) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Seal) UnmarshalText(text []byte) error {
	b, err := zkcrypto.HexToBytes(string(text))
	if err != nil {
		return errorsmod.Wrapf(types.ErrMalformedInput, "seal: %v", err)
	}
	parsed, err := ParseSeal(b)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeal copies a 36-byte buffer into a Seal.
func ParseSeal(b []byte) (Seal, error) {
	var s Seal
	if len(b) != Size {
		return s, errorsmod.Wrapf(types.ErrMalformedInput, "seal must be %d bytes, got %d", Size, len(b))
	}
	copy(s[:], b)
	return s, nil
}

// OutputDigest is sha256(TAG_OUTPUT || journal_digest || assumptions(0^32) || le64(2)).
func OutputDigest(journalDigest zkcrypto.Hash) zkcrypto.Hash {
	var assumptions [zkcrypto.HashSize]byte
	return zkcrypto.Sha256(TagOutput[:], journalDigest[:], assumptions[:], zkcrypto.U64LE(2))
}

// ClaimDigest is
//
//	sha256(TAG_CLAIM || input(0^32) || program_id || POST_STATE_HALTED ||
//	       output_digest || exit_codes(0^8) || le64(5))
func ClaimDigest(programID, journalDigest zkcrypto.Hash) zkcrypto.Hash {
	var input [zkcrypto.HashSize]byte
	var exitCodes [8]byte
	output := OutputDigest(journalDigest)
	return zkcrypto.Sha256(
		TagClaim[:],
		input[:],
		programID[:],
		PostStateHalted[:],
		output[:],
		exitCodes[:],
		zkcrypto.U64LE(5),
	)
}

// Build assembles selector || ClaimDigest(programID, journalDigest).
func Build(programID zkcrypto.Hash, selector Selector, journalDigest zkcrypto.Hash) Seal {
	var s Seal
	copy(s[:SelectorSize], selector[:])
	claim := ClaimDigest(programID, journalDigest)
	copy(s[SelectorSize:], claim[:])
	return s
}

// Builder builds mock seals for a fixed set of program ids and selector.
type Builder struct {
	ProgramIDs ProgramIDs
	Selector   Selector
}

// NewBuilder returns a Builder over the reference program ids and the Groth16
// selector.
func NewBuilder() Builder {
	return Builder{ProgramIDs: DefaultProgramIDs(), Selector: DefaultSelector}
}

// BuildMock returns the mock seal for j under the program id of its kind.
func (b Builder) BuildMock(j journal.Journal) (Seal, error) {
	id, err := b.ProgramIDs.For(j.Kind())
	if err != nil {
		return Seal{}, err
	}
	return Build(id, b.Selector, journal.Digest(j)), nil
}

// Verify recomputes the mock claim for j and compares it with s. It is the
// check a permissive verifier performs.
func (b Builder) Verify(s Seal, j journal.Journal) error {
	want, err := b.BuildMock(j)
	if err != nil {
		return err
	}
	if s != want {
		return errorsmod.Wrapf(types.ErrMalformedInput, "seal %s does not attest %s journal (want %s)", s, j.Kind(), want)
	}
	return nil
}

func mustHash(s string) zkcrypto.Hash {
	h, err := zkcrypto.ParseHash(s)
	if err != nil {
		panic(fmt.Sprintf("seal: bad constant %q: %v", s, err))
	}
	return h
}
