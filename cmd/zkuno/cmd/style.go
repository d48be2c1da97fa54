package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"zkuno/internal/cards"
)

var colourStyles = map[cards.Colour]*pterm.Style{
	cards.Red:    pterm.NewStyle(pterm.FgLightRed, pterm.Bold),
	cards.Yellow: pterm.NewStyle(pterm.FgLightYellow, pterm.Bold),
	cards.Green:  pterm.NewStyle(pterm.FgLightGreen, pterm.Bold),
	cards.Blue:   pterm.NewStyle(pterm.FgLightBlue, pterm.Bold),
	cards.Wild:   pterm.NewStyle(pterm.FgLightMagenta, pterm.Bold),
}

func styledCard(c cards.Card) string {
	if st, ok := colourStyles[c.Colour]; ok {
		return st.Sprint(c.String())
	}
	return c.String()
}

func styledHand(h cards.Hand) string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = styledCard(c)
	}
	return strings.Join(parts, "  ")
}

func printHand(w io.Writer, title string, h cards.Hand) {
	pterm.Fprintln(w, pterm.LightCyan(title)+": "+styledHand(h))
	pterm.Fprintln(w, "  bytes: "+fmt.Sprintf("%x", h.Encode()))
}

func printKV(w io.Writer, rows [][]string) error {
	data := pterm.TableData{}
	for _, r := range rows {
		data = append(data, []string{pterm.LightCyan(r[0]), r[1]})
	}
	return pterm.DefaultTable.WithData(data).WithWriter(w).Render()
}

var colourNames = map[string]cards.Colour{
	"red": cards.Red, "yellow": cards.Yellow, "green": cards.Green, "blue": cards.Blue, "wild": cards.Wild,
}

var rankNames = map[string]cards.Rank{
	"skip": cards.Skip, "reverse": cards.Reverse, "rev": cards.Reverse,
	"+2": cards.DrawTwo, "draw2": cards.DrawTwo,
	"wild": cards.WildCard, "+4": cards.WildDraw4, "draw4": cards.WildDraw4,
}

func parseColour(s string) (cards.Colour, error) {
	if c, ok := colourNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > uint64(cards.Wild) {
		return 0, fmt.Errorf("unknown colour %q", s)
	}
	return cards.Colour(n), nil
}

func parseRank(s string) (cards.Rank, error) {
	if r, ok := rankNames[strings.ToLower(s)]; ok {
		return r, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > uint64(cards.WildDraw4) {
		return 0, fmt.Errorf("unknown rank %q", s)
	}
	return cards.Rank(n), nil
}

// parseCard accepts "colour:rank" with names or numbers, e.g. "green:7",
// "wild:+4" or "3:12". A bare "wild" or "+4" names a wild card.
func parseCard(s string) (cards.Card, error) {
	switch strings.ToLower(s) {
	case "wild":
		return cards.Card{Colour: cards.Wild, Rank: cards.WildCard}, nil
	case "+4":
		return cards.Card{Colour: cards.Wild, Rank: cards.WildDraw4}, nil
	}
	colour, rank, ok := strings.Cut(s, ":")
	if !ok {
		return cards.Card{}, fmt.Errorf("card %q: want colour:rank", s)
	}
	c, err := parseColour(colour)
	if err != nil {
		return cards.Card{}, err
	}
	r, err := parseRank(rank)
	if err != nil {
		return cards.Card{}, err
	}
	card := cards.Card{Colour: c, Rank: r}
	if !card.Valid() {
		return cards.Card{}, fmt.Errorf("card %q is not in the deck", s)
	}
	return card, nil
}
