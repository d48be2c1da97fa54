package cards

import (
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"

	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

const (
	// HandSize is the number of cards dealt to each player.
	HandSize = 7

	// TopCardIndex is the deck index of the initial discard.
	TopCardIndex = 14

	// FirstDrawIndex is the ledger's initial draw counter; every draw consumes
	// the card at the current counter.
	FirstDrawIndex = 15
)

// DeriveCard maps (seed, index) to a card:
//
//	d      = keccak256(u32be(seed) || u32be(index))
//	colour = u32be(d[0:4]) % 5
//	rank   = 13 + u32be(d[4:8]) % 2   if colour is wild
//	         u32be(d[4:8]) % 13       otherwise
//
// This must match the ledger's deck derivation bit-for-bit.
func DeriveCard(seed, index uint32) Card {
	var in [8]byte
	binary.BigEndian.PutUint32(in[0:4], seed)
	binary.BigEndian.PutUint32(in[4:8], index)
	d := zkcrypto.Keccak256(in[:])

	colourRaw := binary.BigEndian.Uint32(d[0:4])
	rankRaw := binary.BigEndian.Uint32(d[4:8])

	colour := Colour(colourRaw % 5)
	if colour == Wild {
		return Card{Colour: Wild, Rank: WildCard + Rank(rankRaw%2)}
	}
	return Card{Colour: colour, Rank: Rank(rankRaw % 13)}
}

// DealHand returns the seven cards dealt to slot 0 or 1.
func DealHand(seed uint32, slot uint32) (Hand, error) {
	if slot > 1 {
		return nil, errorsmod.Wrapf(types.ErrMalformedInput, "player slot %d (must be 0 or 1)", slot)
	}
	start := slot * HandSize
	hand := make(Hand, HandSize)
	for i := range hand {
		hand[i] = DeriveCard(seed, start+uint32(i))
	}
	return hand, nil
}

// DeriveTopCard returns the initial discard. A wild is never a legal first
// discard, so it is replaced by a red numeric card.
func DeriveTopCard(seed uint32) Card {
	c := DeriveCard(seed, TopCardIndex)
	if c.Colour == Wild {
		return Card{Colour: Red, Rank: c.Rank % 10}
	}
	return c
}

// DrawnCard is the card a player receives when the ledger's draw counter is drawCount.
func DrawnCard(seed, drawCount uint32) Card {
	return DeriveCard(seed, drawCount)
}
