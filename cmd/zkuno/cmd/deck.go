package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zkuno/internal/cards"
)

const (
	flagSeed  = "seed"
	flagSlot  = "slot"
	flagIndex = "index"
)

func dealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Show the hand a seat is dealt in a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, _ := cmd.Flags().GetUint32(flagSeed)
			slot, _ := cmd.Flags().GetUint32(flagSlot)
			hand, err := cards.DealHand(seed, slot)
			if err != nil {
				return err
			}
			printHand(cmd.OutOrStdout(), fmt.Sprintf("session %d seat %d", seed, slot), hand)
			return nil
		},
	}
	cmd.Flags().Uint32(flagSeed, 0, "session id (deck seed)")
	cmd.Flags().Uint32(flagSlot, 0, "seat: 0 or 1")
	return cmd
}

func cardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Derive the deck card at an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, _ := cmd.Flags().GetUint32(flagSeed)
			index, _ := cmd.Flags().GetUint32(flagIndex)
			c := cards.DeriveCard(seed, index)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d,%d)\n", styledCard(c), c.Colour, c.Rank)
			return nil
		},
	}
	cmd.Flags().Uint32(flagSeed, 0, "session id (deck seed)")
	cmd.Flags().Uint32(flagIndex, cards.FirstDrawIndex, "deck index")
	return cmd
}

func topCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the initial discard of a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, _ := cmd.Flags().GetUint32(flagSeed)
			c := cards.DeriveTopCard(seed)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d,%d)\n", styledCard(c), c.Colour, c.Rank)
			return nil
		},
	}
	cmd.Flags().Uint32(flagSeed, 0, "session id (deck seed)")
	return cmd
}
