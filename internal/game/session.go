// Package game tracks one player's private side of a session: the hand, the
// salt behind the published commitment and the phase of the game.
//
// Every change goes through Prepare*, which returns a Pending transition
// holding the would-be session, the journal and the prover witness. The
// current session is never modified; callers swap in Pending.Adopt() only
// after the ledger accepted the proof. Dropping a Pending keeps the old hand
// and salt, which still open the commitment on the ledger.
package game

import (
	"io"

	errorsmod "cosmossdk.io/errors"

	"zkuno/internal/cards"
	"zkuno/internal/journal"
	"zkuno/internal/prover"
	"zkuno/internal/rules"
	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

// Phase is the player's position in the session lifecycle.
type Phase string

const (
	PhaseNoHand          Phase = "no_hand"
	PhaseHandCommitted   Phase = "hand_committed"
	PhaseOneCardDeclared Phase = "one_card_declared"
	PhaseEnded           Phase = "ended"
)

// Table is the public ledger state a move is checked against.
type Table struct {
	ActiveColour cards.Colour `json:"active_colour"`
	TopRank      cards.Rank   `json:"top_rank"`
	DrawCount    uint32       `json:"draw_count"`
}

// InitialTable is the table at the start of a session.
func InitialTable(sessionID uint32) Table {
	top := cards.DeriveTopCard(sessionID)
	return Table{ActiveColour: top.Colour, TopRank: top.Rank, DrawCount: cards.FirstDrawIndex}
}

// Session is the adopted private state. The session id doubles as the deck
// seed.
type Session struct {
	ID         uint32        `json:"id"`
	Slot       uint32        `json:"slot"`
	Phase      Phase         `json:"phase"`
	Hand       cards.Hand    `json:"hand"`
	Salt       zkcrypto.Salt `json:"salt"`
	Commitment zkcrypto.Hash `json:"commitment"`
}

// NewSession returns a session with no hand for the player in slot.
func NewSession(id, slot uint32) (Session, error) {
	if slot > 1 {
		return Session{}, errorsmod.Wrapf(types.ErrMalformedInput, "player slot %d (must be 0 or 1)", slot)
	}
	return Session{ID: id, Slot: slot, Phase: PhaseNoHand}, nil
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	s.Hand = s.Hand.Clone()
	return s
}

// Pending is a prepared but not yet adopted transition.
type Pending struct {
	Journal journal.Journal
	Request prover.Request

	// ActiveColour and Effect are the public outcome of a play.
	ActiveColour cards.Colour
	Effect       rules.Effect

	next Session
}

// Kind is the journal kind of the transition.
func (p Pending) Kind() journal.Kind { return p.Journal.Kind() }

// Next previews the session Adopt would return.
func (p Pending) Next() Session { return p.next.Clone() }

// Adopt returns the new session. Call it once the ledger has accepted the
// transition's proof.
func (p Pending) Adopt() Session { return p.next.Clone() }

// PrepareCommit deals the player's hand and commits to it under a fresh salt.
func (s Session) PrepareCommit(rand io.Reader) (Pending, error) {
	if s.Phase != PhaseNoHand {
		return Pending{}, s.transitionError(journal.KindCommit)
	}
	hand, err := cards.DealHand(s.ID, s.Slot)
	if err != nil {
		return Pending{}, err
	}
	salt, err := zkcrypto.NewSalt(rand)
	if err != nil {
		return Pending{}, err
	}

	next := s.Clone()
	next.Phase = PhaseHandCommitted
	next.Hand = hand
	next.Salt = salt
	next.Commitment = hand.Commitment(salt)

	return s.pending(prover.NewCommitRequest(s.ID, hand, salt), next)
}

// PreparePlay removes the first copy of card from the hand and recommits.
// wildColour is only read for wild cards.
func (s Session) PreparePlay(card cards.Card, wildColour uint8, table Table, rand io.Reader) (Pending, error) {
	if s.Phase != PhaseHandCommitted && s.Phase != PhaseOneCardDeclared {
		return Pending{}, s.transitionError(journal.KindPlay)
	}
	if err := rules.CheckPlay(s.Hand, card, table.ActiveColour, table.TopRank); err != nil {
		return Pending{}, err
	}
	if err := rules.CheckWildColour(card, wildColour); err != nil {
		return Pending{}, err
	}
	if !card.IsWild() {
		wildColour = 0
	}

	hand, _ := s.Hand.Remove(card)
	salt, err := zkcrypto.NewSalt(rand)
	if err != nil {
		return Pending{}, err
	}

	next := s.Clone()
	next.Hand = hand
	next.Salt = salt
	next.Commitment = hand.Commitment(salt)
	next.Phase = PhaseHandCommitted
	if len(hand) == 0 {
		next.Phase = PhaseEnded
	}

	req := prover.NewPlayRequest(s.ID, s.Hand, s.Salt, hand, salt, card, wildColour, uint8(table.ActiveColour))
	p, err := s.pending(req, next)
	if err != nil {
		return Pending{}, err
	}
	p.ActiveColour = rules.ActiveColourAfter(card, wildColour)
	p.Effect = rules.ApplyEffects(card.Rank, table.DrawCount)
	return p, nil
}

// PrepareDraw appends the card at drawCount and recommits.
func (s Session) PrepareDraw(drawCount uint32, rand io.Reader) (Pending, error) {
	if s.Phase != PhaseHandCommitted && s.Phase != PhaseOneCardDeclared {
		return Pending{}, s.transitionError(journal.KindDraw)
	}
	hand := s.Hand.Append(cards.DrawnCard(s.ID, drawCount))
	salt, err := zkcrypto.NewSalt(rand)
	if err != nil {
		return Pending{}, err
	}

	next := s.Clone()
	next.Hand = hand
	next.Salt = salt
	next.Commitment = hand.Commitment(salt)
	next.Phase = PhaseHandCommitted

	return s.pending(prover.NewDrawRequest(s.ID, s.Hand, s.Salt, hand, salt, drawCount), next)
}

// PrepareDeclare proves the committed hand holds exactly one card. The
// commitment and salt do not change.
func (s Session) PrepareDeclare() (Pending, error) {
	if s.Phase != PhaseHandCommitted {
		return Pending{}, s.transitionError(journal.KindDeclare)
	}
	if len(s.Hand) != 1 {
		return Pending{}, errorsmod.Wrapf(types.ErrLegalityViolation, "cannot declare with %d cards", len(s.Hand))
	}

	next := s.Clone()
	next.Phase = PhaseOneCardDeclared

	return s.pending(prover.NewDeclareRequest(s.ID, s.Hand, s.Salt), next)
}

func (s Session) pending(req prover.Request, next Session) (Pending, error) {
	j, err := req.Journal()
	if err != nil {
		return Pending{}, err
	}
	return Pending{Journal: j, Request: req, next: next}, nil
}

func (s Session) transitionError(kind journal.Kind) error {
	return errorsmod.Wrapf(types.ErrInvalidTransition, "session %d: cannot %s in phase %s", s.ID, kind, s.Phase)
}
