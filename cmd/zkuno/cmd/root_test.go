package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"zkuno/internal/cards"
	"zkuno/internal/codec"
	"zkuno/internal/game"
	"zkuno/internal/state"
	"zkuno/internal/types"
)

func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--home", home, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDealAndTop(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, home, "deal", "--seed", "0", "--slot", "0")
	require.NoError(t, err)
	require.Contains(t, out, "Blue 7")
	require.Contains(t, out, "030700080205010200050003040d")

	out, err = run(t, home, "top", "--seed", "3")
	require.NoError(t, err)
	require.Contains(t, out, "(0,3)")

	_, err = run(t, home, "deal", "--seed", "0", "--slot", "2")
	require.Error(t, err)
}

func TestCommitCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "commit", "--hand", "00000101", "--salt", strings.Repeat("00", 32))
	require.NoError(t, err)
	require.Contains(t, out, "caca14369e8ccf4df87e51e42e9f1481a6b7b07b2f26020b183359bd0f70fc36")
}

func TestJournalAndSealCommands(t *testing.T) {
	home := t.TempDir()
	out, err := run(t, home, "journal", "commit", "--session", "42",
		"--hand-hash", "caca14369e8ccf4df87e51e42e9f1481a6b7b07b2f26020b183359bd0f70fc36")
	require.NoError(t, err)
	require.Contains(t, out, "0000002acaca14369e8ccf4df87e51e42e9f1481a6b7b07b2f26020b183359bd0f70fc36")
	require.Contains(t, out, "975a40604a5c2388e1348529c2f0e2fb4cd0dab0dc3d9abd8f94fb7435fc6d3b")

	out, err = run(t, home, "seal", "--kind", "commit",
		"--journal", "0000002acaca14369e8ccf4df87e51e42e9f1481a6b7b07b2f26020b183359bd0f70fc36")
	require.NoError(t, err)
	require.Contains(t, out, "73c457ba4809643a2c3abdfef1a138486a6631c1e962977ffa870dea922b518be00157b6")

	_, err = run(t, home, "seal", "--kind", "draw", "--journal", "0000002a")
	require.Error(t, err)
}

func TestJournalPlay_WildColour(t *testing.T) {
	home := t.TempDir()
	oldHash, newHash := strings.Repeat("11", 32), strings.Repeat("22", 32)
	prefix := "0000002a" + oldHash + newHash

	out, err := run(t, home, "journal", "play", "--session", "42", "--old-hash", oldHash, "--new-hash", newHash,
		"--card", "green:7", "--wild-colour", "blue")
	require.NoError(t, err)
	require.Contains(t, out, prefix+"020700000000", "coloured cards carry wild colour 0")

	out, err = run(t, home, "journal", "play", "--session", "42", "--old-hash", oldHash, "--new-hash", newHash,
		"--card", "wild", "--wild-colour", "blue", "--active-colour", "green")
	require.NoError(t, err)
	require.Contains(t, out, prefix+"040d03020000")

	_, err = run(t, home, "journal", "play", "--session", "42", "--old-hash", oldHash, "--new-hash", newHash,
		"--card", "+4", "--wild-colour", "wild")
	require.ErrorIs(t, err, types.ErrLegalityViolation)
}

func TestSessionFlow_OfflineMock(t *testing.T) {
	home := t.TempDir()
	store := state.NewStore(home)

	_, err := run(t, home, "session", "new", "--id", "42", "--slot", "0")
	require.NoError(t, err)
	_, err = run(t, home, "session", "new", "--id", "42")
	require.Error(t, err, "duplicate session")

	out, err := run(t, home, "session", "commit", "--id", "42", "--player", "alice")
	require.NoError(t, err)
	require.Contains(t, out, codec.TypeCommitHand, "offline mode prints the tx")
	require.Contains(t, out, "session adopt --id 42")

	s, err := store.Get(42)
	require.NoError(t, err)
	require.Equal(t, game.PhaseNoHand, s.Phase, "a printed tx is not adopted")

	_, err = run(t, home, "session", "declare", "--id", "42")
	require.ErrorIs(t, err, types.ErrInvalidTransition, "no move while a transition is pending")

	_, err = run(t, home, "session", "adopt", "--id", "42")
	require.NoError(t, err)
	s, err = store.Get(42)
	require.NoError(t, err)
	require.Equal(t, game.PhaseHandCommitted, s.Phase)
	require.Len(t, s.Hand, cards.HandSize)
	require.Equal(t, s.Hand.Commitment(s.Salt), s.Commitment)

	// Illegal: +4 while holding green (initial discard is Green 2).
	_, err = run(t, home, "session", "play", "--id", "42", "--card", "+4", "--wild-colour", "blue")
	require.Error(t, err)
	_, pending, err := store.GetPending(42)
	require.NoError(t, err)
	require.False(t, pending, "a refused play must not store anything")

	out, err = run(t, home, "session", "play", "--id", "42", "--card", "green:3")
	require.NoError(t, err)
	require.Contains(t, out, codec.TypePlayCard)

	// Until adopted, the stored hand and salt still open the ledger's commitment.
	after, err := store.Get(42)
	require.NoError(t, err)
	require.Equal(t, s, after)
	require.Equal(t, s.Commitment, after.Hand.Commitment(after.Salt))
	next, pending, err := store.GetPending(42)
	require.NoError(t, err)
	require.True(t, pending)
	require.NotEqual(t, s.Commitment, next.Commitment)

	out, err = run(t, home, "session", "show", "--id", "42")
	require.NoError(t, err)
	require.Contains(t, out, "pending:")

	// The ledger refused it: drop the transition and keep the old hand.
	_, err = run(t, home, "session", "discard", "--id", "42")
	require.NoError(t, err)
	after, err = store.Get(42)
	require.NoError(t, err)
	require.Equal(t, s, after)

	_, err = run(t, home, "session", "play", "--id", "42", "--card", "green:3")
	require.NoError(t, err)
	_, err = run(t, home, "session", "adopt", "--id", "42")
	require.NoError(t, err)

	out, err = run(t, home, "session", "draw", "--id", "42", "--draw-count", "15")
	require.NoError(t, err)
	require.Contains(t, out, "Blue 9")
	_, err = run(t, home, "session", "adopt", "--id", "42")
	require.NoError(t, err)

	s, err = store.Get(42)
	require.NoError(t, err)
	require.Len(t, s.Hand, cards.HandSize)
	require.False(t, s.Hand.Contains(cards.Card{Colour: cards.Green, Rank: 3}))
	require.Equal(t, s.Hand.Commitment(s.Salt), s.Commitment)

	_, err = run(t, home, "session", "adopt", "--id", "42")
	require.ErrorIs(t, err, types.ErrInvalidTransition, "nothing left to adopt")

	_, err = run(t, home, "session", "declare", "--id", "42")
	require.Error(t, err, "seven cards left")

	out, err = run(t, home, "session", "list")
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestSessionCommit_Groth16WithoutProver(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, "session", "new", "--id", "5")
	require.NoError(t, err)

	_, err = run(t, home, "session", "commit", "--id", "5", "--verifier", "groth16")
	require.Error(t, err)

	s, err := state.NewStore(home).Get(5)
	require.NoError(t, err)
	require.Equal(t, game.PhaseNoHand, s.Phase)
}

func TestParseCard(t *testing.T) {
	cases := map[string]cards.Card{
		"green:7":     {Colour: cards.Green, Rank: 7},
		"Blue:skip":   {Colour: cards.Blue, Rank: cards.Skip},
		"3:12":        {Colour: cards.Blue, Rank: cards.DrawTwo},
		"wild":        {Colour: cards.Wild, Rank: cards.WildCard},
		"+4":          {Colour: cards.Wild, Rank: cards.WildDraw4},
		"wild:+4":     {Colour: cards.Wild, Rank: cards.WildDraw4},
		"yellow:+2":   {Colour: cards.Yellow, Rank: cards.DrawTwo},
		"red:reverse": {Colour: cards.Red, Rank: cards.Reverse},
	}
	for in, want := range cases {
		got, err := parseCard(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "green", "purple:1", "red:wild", "wild:3", "red:15"} {
		_, err := parseCard(bad)
		require.Error(t, err, bad)
	}
}
