// Package journal builds and parses the public outputs each guest program
// commits to. The ledger reads these buffers byte-for-byte, so every layout
// here is fixed.
package journal

import (
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"

	"zkuno/internal/cards"
	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

// Kind names the guest program a journal belongs to.
type Kind string

const (
	KindCommit  Kind = "commit"
	KindPlay    Kind = "play"
	KindDraw    Kind = "draw"
	KindDeclare Kind = "declare"
)

const (
	// CommitLen is session_id(4) || hand_hash(32).
	CommitLen = 4 + 32

	// DeclareLen shares the commit layout.
	DeclareLen = CommitLen

	PlayLen = 4 + // session_id
		32 + // old_hash
		32 + // new_hash
		1 + // played_colour
		1 + // played_rank
		1 + // wild_colour
		1 + // active_colour
		1 + // is_winner
		1 // is_uno

	DrawLen = 4 + // session_id
		32 + // old_hash
		32 + // new_hash
		4 // draw_count
)

// Journal is the common view the seal builder and provers need.
type Journal interface {
	Kind() Kind
	Bytes() []byte
}

// Digest returns sha256 of the journal bytes, the value a receipt claim binds.
func Digest(j Journal) zkcrypto.Hash {
	return zkcrypto.Sha256(j.Bytes())
}

// Commit is the hand-commit journal.
type Commit struct {
	SessionID uint32
	HandHash  zkcrypto.Hash
}

func (Commit) Kind() Kind { return KindCommit }

// Bytes encodes session_id_be32 || hand_hash.
func (c Commit) Bytes() []byte {
	return encodeSessionHash(c.SessionID, c.HandHash)
}

func (c Commit) Digest() zkcrypto.Hash { return Digest(c) }

// ParseCommit decodes a commit journal.
func ParseCommit(in []byte) (Commit, error) {
	sid, h, err := decodeSessionHash(KindCommit, in)
	if err != nil {
		return Commit{}, err
	}
	return Commit{SessionID: sid, HandHash: h}, nil
}

// Declare is the one-card declaration journal. It attests to the current
// commitment; no hand change happens.
type Declare struct {
	SessionID uint32
	HandHash  zkcrypto.Hash
}

func (Declare) Kind() Kind { return KindDeclare }

func (d Declare) Bytes() []byte {
	return encodeSessionHash(d.SessionID, d.HandHash)
}

func (d Declare) Digest() zkcrypto.Hash { return Digest(d) }

func ParseDeclare(in []byte) (Declare, error) {
	sid, h, err := decodeSessionHash(KindDeclare, in)
	if err != nil {
		return Declare{}, err
	}
	return Declare{SessionID: sid, HandHash: h}, nil
}

// Play is the move journal.
type Play struct {
	SessionID    uint32
	OldHash      zkcrypto.Hash
	NewHash      zkcrypto.Hash
	PlayedColour uint8
	PlayedRank   uint8
	WildColour   uint8
	ActiveColour uint8
	IsWinner     bool
	IsUno        bool
}

// NewPlay fills the winner and uno flags from the size of the hand left after
// the play.
func NewPlay(sessionID uint32, oldHash, newHash zkcrypto.Hash, played cards.Card, wildColour, activeColour uint8, newHandLen int) Play {
	return Play{
		SessionID:    sessionID,
		OldHash:      oldHash,
		NewHash:      newHash,
		PlayedColour: uint8(played.Colour),
		PlayedRank:   uint8(played.Rank),
		WildColour:   wildColour,
		ActiveColour: activeColour,
		IsWinner:     newHandLen == 0,
		IsUno:        newHandLen == 1,
	}
}

func (Play) Kind() Kind { return KindPlay }

// Played returns the played card.
func (p Play) Played() cards.Card {
	return cards.Card{Colour: cards.Colour(p.PlayedColour), Rank: cards.Rank(p.PlayedRank)}
}

// Bytes encodes the 74-byte play layout.
func (p Play) Bytes() []byte {
	out := make([]byte, 0, PlayLen)
	out = binary.BigEndian.AppendUint32(out, p.SessionID)
	out = append(out, p.OldHash[:]...)
	out = append(out, p.NewHash[:]...)
	out = append(out,
		p.PlayedColour,
		p.PlayedRank,
		p.WildColour,
		p.ActiveColour,
		boolByte(p.IsWinner),
		boolByte(p.IsUno),
	)
	if len(out) != PlayLen {
		panic("journal: play length mismatch")
	}
	return out
}

func (p Play) Digest() zkcrypto.Hash { return Digest(p) }

// ParsePlay decodes a play journal. Flag bytes other than 0 and 1 are rejected.
func ParsePlay(in []byte) (Play, error) {
	if len(in) != PlayLen {
		return Play{}, lenError(KindPlay, PlayLen, len(in))
	}
	var p Play
	p.SessionID = binary.BigEndian.Uint32(in[0:4])
	copy(p.OldHash[:], in[4:36])
	copy(p.NewHash[:], in[36:68])
	p.PlayedColour = in[68]
	p.PlayedRank = in[69]
	p.WildColour = in[70]
	p.ActiveColour = in[71]

	var err error
	if p.IsWinner, err = parseFlag("is_winner", in[72]); err != nil {
		return Play{}, err
	}
	if p.IsUno, err = parseFlag("is_uno", in[73]); err != nil {
		return Play{}, err
	}
	return p, nil
}

// Draw is the draw journal.
type Draw struct {
	SessionID uint32
	OldHash   zkcrypto.Hash
	NewHash   zkcrypto.Hash
	DrawCount uint32
}

func (Draw) Kind() Kind { return KindDraw }

// Bytes encodes session_id || old || new || draw_count_be32.
func (d Draw) Bytes() []byte {
	out := make([]byte, 0, DrawLen)
	out = binary.BigEndian.AppendUint32(out, d.SessionID)
	out = append(out, d.OldHash[:]...)
	out = append(out, d.NewHash[:]...)
	out = binary.BigEndian.AppendUint32(out, d.DrawCount)
	if len(out) != DrawLen {
		panic("journal: draw length mismatch")
	}
	return out
}

func (d Draw) Digest() zkcrypto.Hash { return Digest(d) }

func ParseDraw(in []byte) (Draw, error) {
	if len(in) != DrawLen {
		return Draw{}, lenError(KindDraw, DrawLen, len(in))
	}
	var d Draw
	d.SessionID = binary.BigEndian.Uint32(in[0:4])
	copy(d.OldHash[:], in[4:36])
	copy(d.NewHash[:], in[36:68])
	d.DrawCount = binary.BigEndian.Uint32(in[68:72])
	return d, nil
}

// Parse decodes a journal of the given kind.
func Parse(kind Kind, in []byte) (Journal, error) {
	switch kind {
	case KindCommit:
		return ParseCommit(in)
	case KindPlay:
		return ParsePlay(in)
	case KindDraw:
		return ParseDraw(in)
	case KindDeclare:
		return ParseDeclare(in)
	default:
		return nil, errorsmod.Wrapf(types.ErrMalformedInput, "unknown journal kind %q", kind)
	}
}

// ParseKind maps a user-facing name to a Kind. "move" and "uno" are accepted
// as the prover server's names for play and declare.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "commit":
		return KindCommit, nil
	case "play", "move":
		return KindPlay, nil
	case "draw":
		return KindDraw, nil
	case "declare", "uno":
		return KindDeclare, nil
	default:
		return "", errorsmod.Wrapf(types.ErrMalformedInput, "unknown journal kind %q", s)
	}
}

func encodeSessionHash(sid uint32, h zkcrypto.Hash) []byte {
	out := make([]byte, 0, CommitLen)
	out = binary.BigEndian.AppendUint32(out, sid)
	return append(out, h[:]...)
}

func decodeSessionHash(kind Kind, in []byte) (uint32, zkcrypto.Hash, error) {
	var h zkcrypto.Hash
	if len(in) != CommitLen {
		return 0, h, lenError(kind, CommitLen, len(in))
	}
	copy(h[:], in[4:])
	return binary.BigEndian.Uint32(in[0:4]), h, nil
}

func lenError(kind Kind, want, got int) error {
	return errorsmod.Wrapf(types.ErrMalformedInput, "%s journal must be %d bytes, got %d", kind, want, got)
}

func parseFlag(name string, b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errorsmod.Wrapf(types.ErrMalformedInput, "%s flag must be 0 or 1, got %d", name, b)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
