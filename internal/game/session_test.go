package game

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"zkuno/internal/cards"
	"zkuno/internal/journal"
	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

const seed = 42

func saltReader(b byte) *bytes.Reader {
	return bytes.NewReader(bytes.Repeat([]byte{b}, zkcrypto.SaltSize))
}

func saltOf(b byte) zkcrypto.Salt {
	var s zkcrypto.Salt
	copy(s[:], bytes.Repeat([]byte{b}, zkcrypto.SaltSize))
	return s
}

func card(c cards.Colour, r cards.Rank) cards.Card { return cards.Card{Colour: c, Rank: r} }

// committed returns seat 0 of session 42 after an adopted commit:
// Red 6, Red 8, Wild, Wild +4, Green 2, Wild, Green 3.
func committed(t *testing.T) Session {
	t.Helper()
	s, err := NewSession(seed, 0)
	require.NoError(t, err)
	p, err := s.PrepareCommit(saltReader(1))
	require.NoError(t, err)
	return p.Adopt()
}

func TestNewSession(t *testing.T) {
	s, err := NewSession(7, 1)
	require.NoError(t, err)
	require.Equal(t, PhaseNoHand, s.Phase)
	require.Empty(t, s.Hand)

	_, err = NewSession(7, 2)
	require.ErrorIs(t, err, types.ErrMalformedInput)
}

func TestInitialTable(t *testing.T) {
	require.Equal(t, Table{ActiveColour: cards.Green, TopRank: 2, DrawCount: cards.FirstDrawIndex}, InitialTable(seed))
	// Seed 3 turns up a wild; it is replaced by a red card.
	require.Equal(t, cards.Red, InitialTable(3).ActiveColour)
}

func TestPrepareCommit(t *testing.T) {
	s, err := NewSession(seed, 0)
	require.NoError(t, err)

	p, err := s.PrepareCommit(saltReader(1))
	require.NoError(t, err)
	require.Equal(t, journal.KindCommit, p.Kind())
	require.Equal(t, PhaseNoHand, s.Phase, "preparing must not touch the current session")

	next := p.Adopt()
	want, err := cards.DealHand(seed, 0)
	require.NoError(t, err)
	require.Equal(t, want, next.Hand)
	require.Equal(t, PhaseHandCommitted, next.Phase)
	require.Equal(t, saltOf(1), next.Salt)
	require.Equal(t, want.Commitment(saltOf(1)), next.Commitment)
	require.Equal(t, journal.Commit{SessionID: seed, HandHash: next.Commitment}, p.Journal)

	_, err = next.PrepareCommit(saltReader(2))
	require.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestPrepareCommit_SaltSourceFailure(t *testing.T) {
	s, err := NewSession(seed, 0)
	require.NoError(t, err)
	_, err = s.PrepareCommit(bytes.NewReader(nil))
	require.Error(t, err)
}

func TestPreparePlay(t *testing.T) {
	s := committed(t)
	table := InitialTable(seed)

	p, err := s.PreparePlay(card(cards.Green, 3), 0, table, saltReader(2))
	require.NoError(t, err)
	require.Len(t, s.Hand, cards.HandSize, "current hand must survive an unadopted play")
	require.Equal(t, saltOf(1), s.Salt)

	next := p.Adopt()
	require.Len(t, next.Hand, cards.HandSize-1)
	require.False(t, next.Hand.Contains(card(cards.Green, 3)))
	require.Equal(t, saltOf(2), next.Salt)
	require.Equal(t, next.Hand.Commitment(saltOf(2)), next.Commitment)
	require.Equal(t, cards.Green, p.ActiveColour)
	require.False(t, p.Effect.KeepTurn)

	play := p.Journal.(journal.Play)
	require.Equal(t, s.Commitment, play.OldHash)
	require.Equal(t, next.Commitment, play.NewHash)
	require.Equal(t, uint8(cards.Green), play.ActiveColour)
}

func TestPreparePlay_RemovesFirstDuplicate(t *testing.T) {
	s := committed(t)
	p, err := s.PreparePlay(card(cards.Wild, cards.WildCard), 3, InitialTable(seed), saltReader(2))
	require.NoError(t, err)

	next := p.Adopt()
	want := cards.Hand{
		card(cards.Red, 6), card(cards.Red, 8), card(cards.Wild, cards.WildDraw4),
		card(cards.Green, 2), card(cards.Wild, cards.WildCard), card(cards.Green, 3),
	}
	require.Equal(t, want, next.Hand)
	require.Equal(t, cards.Blue, p.ActiveColour)
	require.Equal(t, uint8(3), p.Journal.(journal.Play).WildColour)
}

func TestPreparePlay_Illegal(t *testing.T) {
	s := committed(t)
	table := InitialTable(seed)

	_, err := s.PreparePlay(card(cards.Wild, cards.WildDraw4), 1, table, saltReader(2))
	require.ErrorIs(t, err, types.ErrLegalityViolation, "+4 while holding green")

	_, err = s.PreparePlay(card(cards.Red, 6), 0, table, saltReader(2))
	require.ErrorIs(t, err, types.ErrLegalityViolation, "no colour or rank match")

	_, err = s.PreparePlay(card(cards.Blue, 2), 0, table, saltReader(2))
	require.ErrorIs(t, err, types.ErrLegalityViolation, "rank matches but not in hand")

	_, err = s.PreparePlay(card(cards.Wild, cards.WildCard), 4, table, saltReader(2))
	require.ErrorIs(t, err, types.ErrLegalityViolation, "wild colour out of range")

	fresh, err := NewSession(seed, 0)
	require.NoError(t, err)
	_, err = fresh.PreparePlay(card(cards.Green, 3), 0, table, saltReader(2))
	require.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestPreparePlay_Effects(t *testing.T) {
	s := Session{
		ID:    seed,
		Phase: PhaseHandCommitted,
		Hand:  cards.Hand{card(cards.Red, cards.DrawTwo), card(cards.Blue, 1)},
		Salt:  saltOf(5),
	}
	s.Commitment = s.Hand.Commitment(s.Salt)

	p, err := s.PreparePlay(card(cards.Red, cards.DrawTwo), 0, Table{ActiveColour: cards.Red, TopRank: 4, DrawCount: 20}, saltReader(6))
	require.NoError(t, err)
	require.True(t, p.Effect.KeepTurn)
	require.Equal(t, uint32(22), p.Effect.DrawCount)
	require.True(t, p.Journal.(journal.Play).IsUno)
}

func TestPrepareDraw(t *testing.T) {
	s := committed(t)

	p, err := s.PrepareDraw(cards.FirstDrawIndex, saltReader(3))
	require.NoError(t, err)
	require.Len(t, s.Hand, cards.HandSize)

	next := p.Adopt()
	require.Len(t, next.Hand, cards.HandSize+1)
	require.Equal(t, card(cards.Blue, 9), next.Hand[cards.HandSize])
	require.Equal(t, journal.Draw{
		SessionID: seed,
		OldHash:   s.Commitment,
		NewHash:   next.Commitment,
		DrawCount: cards.FirstDrawIndex,
	}, p.Journal)
}

func TestEndgame(t *testing.T) {
	s := Session{
		ID:    seed,
		Phase: PhaseHandCommitted,
		Hand:  cards.Hand{card(cards.Green, 3), card(cards.Red, 8)},
		Salt:  saltOf(1),
	}
	s.Commitment = s.Hand.Commitment(s.Salt)

	_, err := s.PrepareDeclare()
	require.ErrorIs(t, err, types.ErrLegalityViolation, "two cards left")

	p, err := s.PreparePlay(card(cards.Green, 3), 0, Table{ActiveColour: cards.Green, TopRank: 7}, saltReader(2))
	require.NoError(t, err)
	play := p.Journal.(journal.Play)
	require.True(t, play.IsUno)
	require.False(t, play.IsWinner)
	s = p.Adopt()
	require.Equal(t, PhaseHandCommitted, s.Phase)

	p, err = s.PrepareDeclare()
	require.NoError(t, err)
	require.Equal(t, journal.Declare{SessionID: seed, HandHash: s.Commitment}, p.Journal)
	declared := p.Adopt()
	require.Equal(t, PhaseOneCardDeclared, declared.Phase)
	require.Equal(t, s.Commitment, declared.Commitment)
	require.Equal(t, s.Salt, declared.Salt)

	_, err = declared.PrepareDeclare()
	require.ErrorIs(t, err, types.ErrInvalidTransition)

	p, err = declared.PreparePlay(card(cards.Red, 8), 0, Table{ActiveColour: cards.Red, TopRank: 3}, saltReader(4))
	require.NoError(t, err)
	require.True(t, p.Journal.(journal.Play).IsWinner)
	ended := p.Adopt()
	require.Equal(t, PhaseEnded, ended.Phase)
	require.Empty(t, ended.Hand)

	_, err = ended.PrepareDraw(30, saltReader(5))
	require.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestDrawAfterDeclareReturnsToCommitted(t *testing.T) {
	s := Session{ID: seed, Phase: PhaseOneCardDeclared, Hand: cards.Hand{card(cards.Red, 1)}, Salt: saltOf(1)}
	s.Commitment = s.Hand.Commitment(s.Salt)

	p, err := s.PrepareDraw(16, saltReader(2))
	require.NoError(t, err)
	require.Equal(t, PhaseHandCommitted, p.Adopt().Phase)
}

func TestAdoptReturnsIndependentCopies(t *testing.T) {
	s := committed(t)
	p, err := s.PrepareDraw(cards.FirstDrawIndex, saltReader(3))
	require.NoError(t, err)

	a := p.Adopt()
	a.Hand[0] = card(cards.Blue, 0)
	require.NotEqual(t, a.Hand[0], p.Next().Hand[0])
}
