package prover

import (
	"slices"

	errorsmod "cosmossdk.io/errors"

	"zkuno/internal/cards"
	"zkuno/internal/journal"
	"zkuno/internal/rules"
	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

// Request is the witness for one guest program. Which fields are read depends
// on Kind; use the New*Request constructors.
type Request struct {
	Kind      journal.Kind
	SessionID uint32

	// Commit and declare.
	Hand     cards.Hand
	Salt     zkcrypto.Salt
	HandHash zkcrypto.Hash

	// Play and draw.
	OldHand cards.Hand
	OldSalt zkcrypto.Salt
	NewHand cards.Hand
	NewSalt zkcrypto.Salt

	// Play.
	Played       cards.Card
	WildColour   uint8
	ActiveColour uint8

	// Draw.
	DrawCount uint32
}

func NewCommitRequest(sessionID uint32, hand cards.Hand, salt zkcrypto.Salt) Request {
	return Request{
		Kind:      journal.KindCommit,
		SessionID: sessionID,
		Hand:      hand.Clone(),
		Salt:      salt,
		HandHash:  hand.Commitment(salt),
	}
}

func NewDeclareRequest(sessionID uint32, hand cards.Hand, salt zkcrypto.Salt) Request {
	r := NewCommitRequest(sessionID, hand, salt)
	r.Kind = journal.KindDeclare
	return r
}

// NewPlayRequest builds a move witness. activeColour is the table's active
// colour before the play.
func NewPlayRequest(sessionID uint32, oldHand cards.Hand, oldSalt zkcrypto.Salt, newHand cards.Hand, newSalt zkcrypto.Salt, played cards.Card, wildColour, activeColour uint8) Request {
	return Request{
		Kind:         journal.KindPlay,
		SessionID:    sessionID,
		OldHand:      oldHand.Clone(),
		OldSalt:      oldSalt,
		NewHand:      newHand.Clone(),
		NewSalt:      newSalt,
		Played:       played,
		WildColour:   wildColour,
		ActiveColour: activeColour,
	}
}

// NewDrawRequest builds a draw witness. drawCount is the ledger's draw counter
// at the time of the draw.
func NewDrawRequest(sessionID uint32, oldHand cards.Hand, oldSalt zkcrypto.Salt, newHand cards.Hand, newSalt zkcrypto.Salt, drawCount uint32) Request {
	return Request{
		Kind:      journal.KindDraw,
		SessionID: sessionID,
		OldHand:   oldHand.Clone(),
		OldSalt:   oldSalt,
		NewHand:   newHand.Clone(),
		NewSalt:   newSalt,
		DrawCount: drawCount,
	}
}

// Journal runs the guest program's assertions over the witness and returns
// the journal it would commit. A witness the guest would reject fails here,
// before any proving work is paid for.
func (r Request) Journal() (journal.Journal, error) {
	switch r.Kind {
	case journal.KindCommit:
		if len(r.Hand) != cards.HandSize {
			return nil, errorsmod.Wrapf(types.ErrMalformedInput, "commit hand has %d cards, want %d", len(r.Hand), cards.HandSize)
		}
		if err := r.checkHash(); err != nil {
			return nil, err
		}
		return journal.Commit{SessionID: r.SessionID, HandHash: r.HandHash}, nil

	case journal.KindDeclare:
		if len(r.Hand) != 1 {
			return nil, errorsmod.Wrapf(types.ErrLegalityViolation, "declare needs exactly one card, hand has %d", len(r.Hand))
		}
		if err := r.checkHash(); err != nil {
			return nil, err
		}
		return journal.Declare{SessionID: r.SessionID, HandHash: r.HandHash}, nil

	case journal.KindPlay:
		if !r.OldHand.Contains(r.Played) {
			return nil, errorsmod.Wrapf(types.ErrLegalityViolation, "%s is not in the committed hand", r.Played)
		}
		if r.Played.Rank == cards.WildDraw4 && rules.HasMatchingColour(r.OldHand, cards.Colour(r.ActiveColour)) {
			return nil, errorsmod.Wrapf(types.ErrLegalityViolation, "wild draw four while holding %s", cards.Colour(r.ActiveColour))
		}
		want, _ := r.OldHand.Remove(r.Played)
		if !slices.Equal(want, r.NewHand) {
			return nil, errorsmod.Wrap(types.ErrMalformedInput, "new hand is not the old hand minus the played card")
		}
		return journal.NewPlay(
			r.SessionID,
			r.OldHand.Commitment(r.OldSalt),
			r.NewHand.Commitment(r.NewSalt),
			r.Played,
			r.WildColour,
			r.ActiveColour,
			len(r.NewHand),
		), nil

	case journal.KindDraw:
		want := r.OldHand.Append(cards.DrawnCard(r.SessionID, r.DrawCount))
		if !slices.Equal(want, r.NewHand) {
			return nil, errorsmod.Wrapf(types.ErrMalformedInput, "new hand is not the old hand plus the card at draw index %d", r.DrawCount)
		}
		return journal.Draw{
			SessionID: r.SessionID,
			OldHash:   r.OldHand.Commitment(r.OldSalt),
			NewHash:   r.NewHand.Commitment(r.NewSalt),
			DrawCount: r.DrawCount,
		}, nil

	default:
		return nil, errorsmod.Wrapf(types.ErrMalformedInput, "unknown request kind %q", r.Kind)
	}
}

func (r Request) checkHash() error {
	if err := r.Hand.Validate(); err != nil {
		return err
	}
	if got := r.Hand.Commitment(r.Salt); got != r.HandHash {
		return errorsmod.Wrapf(types.ErrMalformedInput, "hand/salt commit to %s, not %s", got, r.HandHash)
	}
	return nil
}
