package cards

import (
	errorsmod "cosmossdk.io/errors"

	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

// BytesPerCard is the encoded size of one card.
const BytesPerCard = 2

// Hand is an ordered multiset of cards. Order only matters for the byte
// encoding, and hence for the commitment: callers must keep the same order
// between committing and proving.
type Hand []Card

// Encode returns colour||rank for every card, in hand order.
func (h Hand) Encode() []byte {
	out := make([]byte, 0, len(h)*BytesPerCard)
	for _, c := range h {
		out = append(out, byte(c.Colour), byte(c.Rank))
	}
	return out
}

// DecodeHand is the inverse of Encode. Odd-length input is rejected.
func DecodeHand(b []byte) (Hand, error) {
	if len(b)%BytesPerCard != 0 {
		return nil, errorsmod.Wrapf(types.ErrMalformedInput, "hand encoding has odd length %d", len(b))
	}
	out := make(Hand, 0, len(b)/BytesPerCard)
	for i := 0; i < len(b); i += BytesPerCard {
		out = append(out, Card{Colour: Colour(b[i]), Rank: Rank(b[i+1])})
	}
	return out, nil
}

// Commitment returns keccak256(Encode() || salt).
func (h Hand) Commitment(salt zkcrypto.Salt) zkcrypto.Hash {
	return zkcrypto.Commit(h.Encode(), salt)
}

// Contains reports whether c is in the hand.
func (h Hand) Contains(c Card) bool {
	for _, x := range h {
		if x == c {
			return true
		}
	}
	return false
}

// Remove returns a copy of the hand without the first occurrence of c.
// The receiver is never modified.
func (h Hand) Remove(c Card) (Hand, bool) {
	for i, x := range h {
		if x == c {
			out := make(Hand, 0, len(h)-1)
			out = append(out, h[:i]...)
			return append(out, h[i+1:]...), true
		}
	}
	return h.Clone(), false
}

// Append returns a copy of the hand with c added at the end.
func (h Hand) Append(c Card) Hand {
	out := make(Hand, 0, len(h)+1)
	out = append(out, h...)
	return append(out, c)
}

// Clone returns an independent copy.
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// Validate checks that every card is one a deck can produce.
func (h Hand) Validate() error {
	for i, c := range h {
		if !c.Valid() {
			return errorsmod.Wrapf(types.ErrMalformedInput, "card %d: invalid card (%d,%d)", i, c.Colour, c.Rank)
		}
	}
	return nil
}
