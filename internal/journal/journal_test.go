package journal

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"zkuno/internal/cards"
	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

func mustHash(t *testing.T, s string) zkcrypto.Hash {
	t.Helper()
	h, err := zkcrypto.ParseHash(s)
	if err != nil {
		t.Fatalf("ParseHash(%q): %v", s, err)
	}
	return h
}

func filled(b byte) zkcrypto.Hash {
	var h zkcrypto.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

const scenarioCommitment = "caca14369e8ccf4df87e51e42e9f1481a6b7b07b2f26020b183359bd0f70fc36"

func TestCommitJournal_Layout(t *testing.T) {
	j := Commit{SessionID: 42, HandHash: mustHash(t, scenarioCommitment)}
	got := hex.EncodeToString(j.Bytes())
	want := "0000002a" + scenarioCommitment
	if got != want {
		t.Fatalf("commit journal\nwant %s\ngot  %s", want, got)
	}
	if len(j.Bytes()) != CommitLen {
		t.Fatalf("commit journal length %d", len(j.Bytes()))
	}
	if d := j.Digest().String(); d != "975a40604a5c2388e1348529c2f0e2fb4cd0dab0dc3d9abd8f94fb7435fc6d3b" {
		t.Fatalf("commit journal digest %s", d)
	}
}

func TestDeclareJournal_SharesCommitLayout(t *testing.T) {
	h := mustHash(t, scenarioCommitment)
	c := Commit{SessionID: 42, HandHash: h}
	d := Declare{SessionID: 42, HandHash: h}
	if !bytes.Equal(c.Bytes(), d.Bytes()) {
		t.Fatalf("declare and commit layouts differ")
	}
	if c.Kind() == d.Kind() {
		t.Fatalf("declare and commit must have distinct kinds")
	}
}

func TestPlayJournal_Layout(t *testing.T) {
	p := Play{
		SessionID:    42,
		OldHash:      filled(0x11),
		NewHash:      filled(0x22),
		PlayedColour: 1,
		PlayedRank:   5,
		WildColour:   0,
		ActiveColour: 1,
		IsWinner:     false,
		IsUno:        true,
	}
	b := p.Bytes()
	if len(b) != PlayLen || PlayLen != 74 {
		t.Fatalf("play journal length %d (const %d)", len(b), PlayLen)
	}
	if !bytes.Equal(b[:4], []byte{0, 0, 0, 0x2a}) {
		t.Fatalf("session id prefix %x", b[:4])
	}
	if !bytes.Equal(b[68:], []byte{1, 5, 0, 1, 0, 1}) {
		t.Fatalf("trailing fields %x", b[68:])
	}
	if d := p.Digest().String(); d != "90335d64b624133bb1f831d49d19521df48531c857956ceec9290ef8da437790" {
		t.Fatalf("play journal digest %s", d)
	}
}

func TestDrawJournal_Layout(t *testing.T) {
	d := Draw{SessionID: 42, OldHash: filled(0x11), NewHash: filled(0x22), DrawCount: 15}
	b := d.Bytes()
	if len(b) != DrawLen || DrawLen != 72 {
		t.Fatalf("draw journal length %d (const %d)", len(b), DrawLen)
	}
	if !bytes.Equal(b[68:], []byte{0, 0, 0, 0x0f}) {
		t.Fatalf("draw count suffix %x", b[68:])
	}
	if got := d.Digest().String(); got != "91a76d4f6afabc70e3daa304e0c54ed30b1cb6378cd6532fe53857a5e1226e99" {
		t.Fatalf("draw journal digest %s", got)
	}
}

func TestNewPlay_Flags(t *testing.T) {
	card := cards.Card{Colour: cards.Green, Rank: 4}
	cases := []struct {
		left          int
		winner, isUno bool
	}{
		{left: 0, winner: true},
		{left: 1, isUno: true},
		{left: 2},
		{left: 6},
	}
	for _, tc := range cases {
		p := NewPlay(1, filled(1), filled(2), card, 0, 2, tc.left)
		if p.IsWinner != tc.winner || p.IsUno != tc.isUno {
			t.Fatalf("left=%d: winner=%v uno=%v", tc.left, p.IsWinner, p.IsUno)
		}
		if p.Played() != card {
			t.Fatalf("played card %+v", p.Played())
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	journals := []Journal{
		Commit{SessionID: 7, HandHash: filled(0xab)},
		Declare{SessionID: 8, HandHash: filled(0xcd)},
		Play{SessionID: 9, OldHash: filled(1), NewHash: filled(2), PlayedColour: 4, PlayedRank: 14, WildColour: 3, ActiveColour: 3, IsWinner: true},
		Draw{SessionID: 10, OldHash: filled(3), NewHash: filled(4), DrawCount: 0xdeadbeef},
	}
	for _, j := range journals {
		back, err := Parse(j.Kind(), j.Bytes())
		if err != nil {
			t.Fatalf("%s: %v", j.Kind(), err)
		}
		if back != j {
			t.Fatalf("%s: round trip mismatch: %+v != %+v", j.Kind(), back, j)
		}
	}
}

func TestParse_WrongLength(t *testing.T) {
	cases := []struct {
		kind Kind
		n    int
	}{
		{KindCommit, 35},
		{KindDeclare, 37},
		{KindPlay, 73},
		{KindDraw, 74},
		{KindDraw, 0},
	}
	for _, tc := range cases {
		_, err := Parse(tc.kind, make([]byte, tc.n))
		if !errors.Is(err, types.ErrMalformedInput) {
			t.Fatalf("%s/%d: expected ErrMalformedInput, got %v", tc.kind, tc.n, err)
		}
	}
}

func TestParsePlay_RejectsBadFlag(t *testing.T) {
	b := Play{SessionID: 1}.Bytes()
	b[73] = 2
	if _, err := ParsePlay(b); !errors.Is(err, types.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"commit": KindCommit, "play": KindPlay, "move": KindPlay,
		"draw": KindDraw, "declare": KindDeclare, "uno": KindDeclare,
	} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("shuffle"); !errors.Is(err, types.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}
