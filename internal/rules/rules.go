// Package rules holds the client-side mirror of the ledger's legality checks
// and card effects. The ledger is authoritative; these checks let a client
// refuse an illegal move before paying for a proof.
package rules

import (
	errorsmod "cosmossdk.io/errors"

	"zkuno/internal/cards"
	"zkuno/internal/types"
)

// CanPlay reports whether card may be laid on a discard with the given active
// colour and top rank. Rank matching only applies to coloured ranks, so a
// coloured card never matches a wild discard by rank.
func CanPlay(card cards.Card, activeColour cards.Colour, topRank cards.Rank) bool {
	if card.IsWild() {
		return true
	}
	return card.Colour == activeColour || (card.Rank == topRank && card.Rank <= cards.DrawTwo)
}

// HasMatchingColour reports whether any non-wild card in hand has the active
// colour.
func HasMatchingColour(hand cards.Hand, activeColour cards.Colour) bool {
	for _, c := range hand {
		if !c.IsWild() && c.Colour == activeColour {
			return true
		}
	}
	return false
}

// CheckPlay validates a play of card from hand. A wild-draw-four is refused
// while the hand still holds a card of the active colour.
func CheckPlay(hand cards.Hand, card cards.Card, activeColour cards.Colour, topRank cards.Rank) error {
	if !card.Valid() {
		return errorsmod.Wrapf(types.ErrLegalityViolation, "invalid card (%d,%d)", card.Colour, card.Rank)
	}
	if !hand.Contains(card) {
		return errorsmod.Wrapf(types.ErrLegalityViolation, "%s is not in hand", card)
	}
	if !CanPlay(card, activeColour, topRank) {
		return errorsmod.Wrapf(types.ErrLegalityViolation, "%s does not match %s / %s", card, activeColour, topRank)
	}
	if card.Rank == cards.WildDraw4 && HasMatchingColour(hand, activeColour) {
		return errorsmod.Wrapf(types.ErrLegalityViolation, "wild draw four while holding %s", activeColour)
	}
	return nil
}

// CheckWildColour validates the colour chosen with a wild. Non-wild plays
// ignore wildColour.
func CheckWildColour(card cards.Card, wildColour uint8) error {
	if card.IsWild() && wildColour > uint8(cards.Blue) {
		return errorsmod.Wrapf(types.ErrLegalityViolation, "wild colour %d out of range", wildColour)
	}
	return nil
}

// ActiveColourAfter returns the active colour once card is on the discard.
func ActiveColourAfter(card cards.Card, wildColour uint8) cards.Colour {
	if card.IsWild() {
		return cards.Colour(wildColour % 4)
	}
	return card.Colour
}

// Effect is the outcome of a play on the shared table.
type Effect struct {
	// KeepTurn is set when the opponent loses their turn.
	KeepTurn bool
	// DrawCount is the ledger draw counter after the play.
	DrawCount uint32
}

// ApplyEffects returns the effect of playing a card of the given rank with
// the draw counter at drawCount. In a two-player game skip and reverse both
// hand the turn straight back.
func ApplyEffects(rank cards.Rank, drawCount uint32) Effect {
	switch rank {
	case cards.DrawTwo:
		return Effect{KeepTurn: true, DrawCount: drawCount + 2}
	case cards.WildDraw4:
		return Effect{KeepTurn: true, DrawCount: drawCount + 4}
	case cards.Skip, cards.Reverse:
		return Effect{KeepTurn: true, DrawCount: drawCount}
	default:
		return Effect{DrawCount: drawCount}
	}
}
