package cards

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"zkuno/internal/types"
)

type deckVectors struct {
	Suite string `json:"suite"`
	Cards []struct {
		Seed   uint32 `json:"seed"`
		Index  uint32 `json:"index"`
		Colour uint8  `json:"colour"`
		Rank   uint8  `json:"rank"`
	} `json:"cards"`
	Hands []struct {
		Seed    uint32 `json:"seed"`
		Slot    uint32 `json:"slot"`
		HandHex string `json:"handHex"`
	} `json:"hands"`
	TopCards []struct {
		Seed   uint32 `json:"seed"`
		Colour uint8  `json:"colour"`
		Rank   uint8  `json:"rank"`
	} `json:"topCards"`
}

func loadDeckVectors(t *testing.T) deckVectors {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "deck-v1.json"))
	if err != nil {
		t.Fatalf("read vectors: %v", err)
	}
	var v deckVectors
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode vectors: %v", err)
	}
	return v
}

func TestDeriveCard_Golden(t *testing.T) {
	if got := DeriveCard(0, 0); got != (Card{Colour: Blue, Rank: 7}) {
		t.Fatalf("DeriveCard(0,0) = %+v", got)
	}
	if got := DeriveCard(1, 14); got != (Card{Colour: Blue, Rank: 2}) {
		t.Fatalf("DeriveCard(1,14) = %+v", got)
	}
}

func TestVectors_DeriveCard(t *testing.T) {
	v := loadDeckVectors(t)
	for i, c := range v.Cards {
		got := DeriveCard(c.Seed, c.Index)
		want := Card{Colour: Colour(c.Colour), Rank: Rank(c.Rank)}
		if got != want {
			t.Fatalf("card vec[%d] seed=%d index=%d: got=%+v want=%+v", i, c.Seed, c.Index, got, want)
		}
	}
}

func TestVectors_DealHand(t *testing.T) {
	v := loadDeckVectors(t)
	for i, h := range v.Hands {
		hand, err := DealHand(h.Seed, h.Slot)
		if err != nil {
			t.Fatalf("hand vec[%d]: %v", i, err)
		}
		if got := hex.EncodeToString(hand.Encode()); got != h.HandHex {
			t.Fatalf("hand vec[%d] seed=%d slot=%d mismatch: got=%s want=%s", i, h.Seed, h.Slot, got, h.HandHex)
		}
	}
}

func TestVectors_TopCard(t *testing.T) {
	v := loadDeckVectors(t)
	for i, c := range v.TopCards {
		got := DeriveTopCard(c.Seed)
		want := Card{Colour: Colour(c.Colour), Rank: Rank(c.Rank)}
		if got != want {
			t.Fatalf("top vec[%d] seed=%d: got=%+v want=%+v", i, c.Seed, got, want)
		}
	}
}

func TestDeriveTopCard_ReplacesWild(t *testing.T) {
	// Seed 3 puts a plain wild at index 14.
	if raw := DeriveCard(3, TopCardIndex); raw != (Card{Colour: Wild, Rank: WildCard}) {
		t.Fatalf("fixture drifted: %+v", raw)
	}
	if got := DeriveTopCard(3); got != (Card{Colour: Red, Rank: 3}) {
		t.Fatalf("DeriveTopCard(3) = %+v", got)
	}
}

func TestDeriveCard_DeterministicAndValid(t *testing.T) {
	for seed := uint32(0); seed < 32; seed++ {
		for idx := uint32(0); idx < 64; idx++ {
			a := DeriveCard(seed, idx)
			b := DeriveCard(seed, idx)
			if a != b {
				t.Fatalf("DeriveCard(%d,%d) not deterministic", seed, idx)
			}
			if !a.Valid() {
				t.Fatalf("DeriveCard(%d,%d) produced invalid card %+v", seed, idx, a)
			}
		}
	}
}

func TestDealHand_SlotsAreDisjointRanges(t *testing.T) {
	h0, err := DealHand(42, 0)
	if err != nil {
		t.Fatalf("DealHand slot 0: %v", err)
	}
	h1, err := DealHand(42, 1)
	if err != nil {
		t.Fatalf("DealHand slot 1: %v", err)
	}
	if len(h0) != HandSize || len(h1) != HandSize {
		t.Fatalf("unexpected hand sizes %d/%d", len(h0), len(h1))
	}
	for i := 0; i < HandSize; i++ {
		if h0[i] != DeriveCard(42, uint32(i)) {
			t.Fatalf("slot 0 card %d does not come from index %d", i, i)
		}
		if h1[i] != DeriveCard(42, uint32(HandSize+i)) {
			t.Fatalf("slot 1 card %d does not come from index %d", i, HandSize+i)
		}
	}
}

func TestDealHand_RejectsUnknownSlot(t *testing.T) {
	_, err := DealHand(1, 2)
	if !errors.Is(err, types.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestDrawnCard_UsesCounter(t *testing.T) {
	if DrawnCard(42, FirstDrawIndex) != (Card{Colour: Blue, Rank: 9}) {
		t.Fatalf("unexpected first draw for seed 42: %+v", DrawnCard(42, FirstDrawIndex))
	}
}
