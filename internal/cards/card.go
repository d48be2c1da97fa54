package cards

import "fmt"

// Colour is a card colour. Wild cards carry the pseudo-colour Wild.
type Colour uint8

const (
	Red    Colour = 0
	Yellow Colour = 1
	Green  Colour = 2
	Blue   Colour = 3
	Wild   Colour = 4
)

// Rank is a card face: 0..9 numeric, then the action ranks.
type Rank uint8

const (
	Skip      Rank = 10
	Reverse   Rank = 11
	DrawTwo   Rank = 12
	WildCard  Rank = 13
	WildDraw4 Rank = 14
)

// Card is a (colour, rank) pair. Cards have no identity beyond their value;
// duplicates are legal.
type Card struct {
	Colour Colour `json:"colour"`
	Rank   Rank   `json:"rank"`
}

// IsWild reports whether the card is a wild or wild-draw-four.
func (c Card) IsWild() bool {
	return c.Colour == Wild
}

// Valid reports whether the card could appear in a dealt hand: coloured cards
// range over ranks 0..12 and wild cards are rank 13 or 14 only.
func (c Card) Valid() bool {
	switch {
	case c.Colour > Wild:
		return false
	case c.Colour == Wild:
		return c.Rank == WildCard || c.Rank == WildDraw4
	default:
		return c.Rank <= DrawTwo
	}
}

func (c Colour) String() string {
	switch c {
	case Red:
		return "Red"
	case Yellow:
		return "Yellow"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	case Wild:
		return "Wild"
	default:
		return fmt.Sprintf("Colour(%d)", uint8(c))
	}
}

func (r Rank) String() string {
	switch {
	case r <= 9:
		return fmt.Sprintf("%d", uint8(r))
	case r == Skip:
		return "Skip"
	case r == Reverse:
		return "Rev"
	case r == DrawTwo:
		return "+2"
	case r == WildCard:
		return "Wild"
	case r == WildDraw4:
		return "+4"
	default:
		return "?"
	}
}

func (c Card) String() string {
	if c.Colour == Wild && c.Rank == WildCard {
		return "Wild"
	}
	return c.Colour.String() + " " + c.Rank.String()
}
