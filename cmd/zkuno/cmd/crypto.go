package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zkuno/internal/cards"
	"zkuno/internal/journal"
	"zkuno/internal/rules"
	"zkuno/internal/zkcrypto"
)

const (
	flagHand       = "hand"
	flagSalt       = "salt"
	flagSession    = "session"
	flagHandHash   = "hand-hash"
	flagOldHash    = "old-hash"
	flagNewHash    = "new-hash"
	flagCard       = "card"
	flagWildColour = "wild-colour"
	flagActive     = "active-colour"
	flagCardsLeft  = "cards-left"
	flagDrawCount  = "draw-count"
	flagKind       = "kind"
	flagJournal    = "journal"
)

func commitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Compute keccak256(hand || salt); draws a fresh salt when --salt is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handHex, _ := cmd.Flags().GetString(flagHand)
			saltHex, _ := cmd.Flags().GetString(flagSalt)

			var handBytes []byte
			if handHex != "" {
				b, err := zkcrypto.HexToBytes(handHex)
				if err != nil {
					return fmt.Errorf("hand: %w", err)
				}
				handBytes = b
			}
			hand, err := cards.DecodeHand(handBytes)
			if err != nil {
				return err
			}

			var salt zkcrypto.Salt
			if saltHex == "" {
				salt, err = zkcrypto.NewSalt(nil)
			} else {
				salt, err = zkcrypto.ParseSalt(saltHex)
			}
			if err != nil {
				return err
			}

			return printKV(cmd.OutOrStdout(), [][]string{
				{"hand", styledHand(hand)},
				{"salt", salt.String()},
				{"commitment", hand.Commitment(salt).String()},
			})
		},
	}
	cmd.Flags().String(flagHand, "", "hand bytes as hex (colour||rank per card)")
	cmd.Flags().String(flagSalt, "", "32-byte salt as hex")
	return cmd
}

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Build journal bytes for a guest program",
	}

	hashFlag := func(c *cobra.Command, name string) (zkcrypto.Hash, error) {
		s, _ := c.Flags().GetString(name)
		h, err := zkcrypto.ParseHash(s)
		if err != nil {
			return zkcrypto.Hash{}, fmt.Errorf("--%s: %w", name, err)
		}
		return h, nil
	}
	emit := func(c *cobra.Command, j journal.Journal) error {
		return printKV(c.OutOrStdout(), [][]string{
			{"kind", string(j.Kind())},
			{"journal", fmt.Sprintf("%x", j.Bytes())},
			{"sha256", journal.Digest(j).String()},
		})
	}

	commit := &cobra.Command{
		Use:   "commit",
		Short: "session_id || hand_hash",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			sid, _ := c.Flags().GetUint32(flagSession)
			h, err := hashFlag(c, flagHandHash)
			if err != nil {
				return err
			}
			return emit(c, journal.Commit{SessionID: sid, HandHash: h})
		},
	}
	declare := &cobra.Command{
		Use:   "declare",
		Short: "session_id || hand_hash",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			sid, _ := c.Flags().GetUint32(flagSession)
			h, err := hashFlag(c, flagHandHash)
			if err != nil {
				return err
			}
			return emit(c, journal.Declare{SessionID: sid, HandHash: h})
		},
	}
	for _, c := range []*cobra.Command{commit, declare} {
		c.Flags().Uint32(flagSession, 0, "session id")
		c.Flags().String(flagHandHash, "", "hand commitment (hex)")
	}

	play := &cobra.Command{
		Use:   "play",
		Short: "session_id || old || new || colour || rank || wild || active || winner || uno",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			sid, _ := c.Flags().GetUint32(flagSession)
			oldHash, err := hashFlag(c, flagOldHash)
			if err != nil {
				return err
			}
			newHash, err := hashFlag(c, flagNewHash)
			if err != nil {
				return err
			}
			cardStr, _ := c.Flags().GetString(flagCard)
			card, err := parseCard(cardStr)
			if err != nil {
				return err
			}
			wild, err := playWildColour(c, card)
			if err != nil {
				return err
			}
			activeStr, _ := c.Flags().GetString(flagActive)
			active, err := parseColour(activeStr)
			if err != nil {
				return err
			}
			left, _ := c.Flags().GetInt(flagCardsLeft)
			return emit(c, journal.NewPlay(sid, oldHash, newHash, card, wild, uint8(active), left))
		},
	}
	play.Flags().Uint32(flagSession, 0, "session id")
	play.Flags().String(flagOldHash, "", "commitment before the play (hex)")
	play.Flags().String(flagNewHash, "", "commitment after the play (hex)")
	play.Flags().String(flagCard, "", "played card, e.g. green:7 or wild:+4")
	play.Flags().String(flagWildColour, "red", "colour chosen with a wild; ignored for coloured cards")
	play.Flags().String(flagActive, "red", "active colour before the play")
	play.Flags().Int(flagCardsLeft, 2, "cards left after the play; sets the winner and uno flags")

	draw := &cobra.Command{
		Use:   "draw",
		Short: "session_id || old || new || draw_count",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			sid, _ := c.Flags().GetUint32(flagSession)
			oldHash, err := hashFlag(c, flagOldHash)
			if err != nil {
				return err
			}
			newHash, err := hashFlag(c, flagNewHash)
			if err != nil {
				return err
			}
			n, _ := c.Flags().GetUint32(flagDrawCount)
			return emit(c, journal.Draw{SessionID: sid, OldHash: oldHash, NewHash: newHash, DrawCount: n})
		},
	}
	draw.Flags().Uint32(flagSession, 0, "session id")
	draw.Flags().String(flagOldHash, "", "commitment before the draw (hex)")
	draw.Flags().String(flagNewHash, "", "commitment after the draw (hex)")
	draw.Flags().Uint32(flagDrawCount, cards.FirstDrawIndex, "ledger draw counter")

	cmd.AddCommand(commit, play, draw, declare)
	return cmd
}

func sealCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Build the mock seal for a journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kindStr, _ := cmd.Flags().GetString(flagKind)
			journalHex, _ := cmd.Flags().GetString(flagJournal)

			kind, err := journal.ParseKind(kindStr)
			if err != nil {
				return err
			}
			raw, err := zkcrypto.HexToBytes(journalHex)
			if err != nil {
				return fmt.Errorf("journal: %w", err)
			}
			j, err := journal.Parse(kind, raw)
			if err != nil {
				return err
			}
			b, err := cc.cfg.SealBuilder()
			if err != nil {
				return err
			}
			s, err := b.BuildMock(j)
			if err != nil {
				return err
			}
			id, _ := b.ProgramIDs.For(kind)
			return printKV(cmd.OutOrStdout(), [][]string{
				{"program id", id.String()},
				{"claim digest", s.ClaimDigest().String()},
				{"seal", s.String()},
			})
		},
	}
	cmd.Flags().String(flagKind, "commit", "journal kind: commit, play, draw or declare")
	cmd.Flags().String(flagJournal, "", "journal bytes (hex)")
	return cmd
}

// playWildColour reads the chosen colour for a wild card. Coloured cards
// always carry 0, as in session plays.
func playWildColour(c *cobra.Command, card cards.Card) (uint8, error) {
	if !card.IsWild() {
		return 0, nil
	}
	s, _ := c.Flags().GetString(flagWildColour)
	colour, err := parseColour(s)
	if err != nil {
		return 0, err
	}
	if err := rules.CheckWildColour(card, uint8(colour)); err != nil {
		return 0, err
	}
	return uint8(colour), nil
}
