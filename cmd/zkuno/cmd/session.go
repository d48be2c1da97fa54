package cmd

import (
	"errors"
	"fmt"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/cobra"

	"zkuno/internal/cards"
	"zkuno/internal/game"
	"zkuno/internal/ledger"
	"zkuno/internal/prover"
	"zkuno/internal/state"
	"zkuno/internal/types"
)

const flagID = "id"

func sessionCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Drive the local player's side of a session",
	}
	cmd.AddCommand(
		sessionNewCmd(cc),
		sessionCommitCmd(cc),
		sessionPlayCmd(cc),
		sessionDrawCmd(cc),
		sessionDeclareCmd(cc),
		sessionAdoptCmd(cc),
		sessionDiscardCmd(cc),
		sessionShowCmd(cc),
		sessionListCmd(cc),
	)
	return cmd
}

func (cc *clientContext) store() *state.Store {
	return state.NewStore(cc.cfg.Home)
}

func (cc *clientContext) loadSession(cmd *cobra.Command) (game.Session, error) {
	id, _ := cmd.Flags().GetUint32(flagID)
	return cc.store().Get(id)
}

// loadForMove returns the adopted session, refusing while an earlier
// transition still waits for the ledger.
func (cc *clientContext) loadForMove(cmd *cobra.Command) (game.Session, error) {
	s, err := cc.loadSession(cmd)
	if err != nil {
		return game.Session{}, err
	}
	_, pending, err := cc.store().GetPending(s.ID)
	if err != nil {
		return game.Session{}, err
	}
	if pending {
		return game.Session{}, errorsmod.Wrapf(types.ErrInvalidTransition,
			"session %d has an unconfirmed transition; run `session adopt` or `session discard` first", s.ID)
	}
	return s, nil
}

func (cc *clientContext) submitter(cmd *cobra.Command) (ledger.Submitter, error) {
	if cc.cfg.Ledger.RPC == "" {
		return ledger.Printer{W: cmd.OutOrStdout()}, nil
	}
	return ledger.DialComet(cc.cfg.Ledger.RPC, cc.logger)
}

// advance proves p and submits it. A transition the ledger confirmed is
// adopted; one that was only printed, or whose outcome is unknown, is kept as
// pending next to the adopted session until `session adopt` or
// `session discard`. A rejected transition leaves the store untouched.
func (cc *clientContext) advance(cmd *cobra.Command, p game.Pending) (game.Session, error) {
	ctx := cmd.Context()
	logger := cc.logger.With("session", p.Request.SessionID, "kind", p.Kind())

	opts, err := cc.cfg.ProverOptions()
	if err != nil {
		return game.Session{}, err
	}
	pr, err := prover.New(opts, cc.logger)
	if err != nil {
		return game.Session{}, err
	}
	proof, err := pr.Prove(ctx, p.Request)
	if err != nil {
		return game.Session{}, fmt.Errorf("prove %s: %w", p.Kind(), err)
	}
	logger.Debug("proof ready", "seal", proof.Seal.String(), "mock", proof.IsMock)

	sub, err := cc.submitter(cmd)
	if err != nil {
		return game.Session{}, err
	}
	next := p.Adopt()
	store := cc.store()

	receipt, err := sub.Submit(ctx, ledger.Submission{Player: cc.cfg.Player, Journal: p.Journal, Seal: proof.Seal})
	switch {
	case errors.Is(err, types.ErrSubmissionRejected):
		return game.Session{}, fmt.Errorf("submit %s: %w", p.Kind(), err)
	case err != nil:
		if perr := store.PutPending(next); perr != nil {
			return game.Session{}, errors.Join(fmt.Errorf("submit %s: %w", p.Kind(), err), perr)
		}
		logger.Warn("submission outcome unknown; kept as pending", "err", err)
		return game.Session{}, fmt.Errorf("submit %s: %w (transition kept as pending)", p.Kind(), err)
	case !receipt.Confirmed:
		if err := store.PutPending(next); err != nil {
			return game.Session{}, err
		}
		logger.Info("transition pending", "tx", receipt.TxHash)
		fmt.Fprintf(cmd.OutOrStdout(), "tx %s is not confirmed; run `session adopt --id %d` once the ledger accepts it\n",
			receipt.TxHash, next.ID)
		return next, nil
	}

	if err := store.Put(next); err != nil {
		return game.Session{}, err
	}
	logger.Info("transition adopted", "tx", receipt.TxHash, "height", receipt.Height, "phase", next.Phase)
	return next, nil
}

func addIDFlag(cmd *cobra.Command) {
	cmd.Flags().Uint32(flagID, 0, "session id")
	_ = cmd.MarkFlagRequired(flagID)
}

func sessionNewCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start tracking a session for the local player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetUint32(flagID)
			slot, _ := cmd.Flags().GetUint32(flagSlot)
			store := cc.store()
			if _, err := store.Get(id); err == nil {
				return fmt.Errorf("session %d already exists in %s", id, store.Path())
			}
			s, err := game.NewSession(id, slot)
			if err != nil {
				return err
			}
			if err := store.Put(s); err != nil {
				return err
			}
			return printSession(cmd, s)
		},
	}
	addIDFlag(cmd)
	cmd.Flags().Uint32(flagSlot, 0, "seat: 0 or 1")
	return cmd
}

func sessionCommitCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit to the dealt hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cc.loadForMove(cmd)
			if err != nil {
				return err
			}
			p, err := s.PrepareCommit(nil)
			if err != nil {
				return err
			}
			next, err := cc.advance(cmd, p)
			if err != nil {
				return err
			}
			return printSession(cmd, next)
		},
	}
	addIDFlag(cmd)
	return cmd
}

func tableFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagActive, "", "active colour on the table (default: initial discard)")
	cmd.Flags().String("top-rank", "", "rank of the top discard (default: initial discard)")
	cmd.Flags().Uint32(flagDrawCount, cards.FirstDrawIndex, "ledger draw counter")
}

// readTable starts from the session's initial table and applies any
// explicitly set flags.
func readTable(cmd *cobra.Command, sessionID uint32) (game.Table, error) {
	t := game.InitialTable(sessionID)
	if cmd.Flags().Changed(flagActive) {
		s, _ := cmd.Flags().GetString(flagActive)
		c, err := parseColour(s)
		if err != nil {
			return game.Table{}, err
		}
		t.ActiveColour = c
	}
	if cmd.Flags().Changed("top-rank") {
		s, _ := cmd.Flags().GetString("top-rank")
		r, err := parseRank(s)
		if err != nil {
			return game.Table{}, err
		}
		t.TopRank = r
	}
	t.DrawCount, _ = cmd.Flags().GetUint32(flagDrawCount)
	return t, nil
}

func sessionPlayCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a card from the committed hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cc.loadForMove(cmd)
			if err != nil {
				return err
			}
			cardStr, _ := cmd.Flags().GetString(flagCard)
			card, err := parseCard(cardStr)
			if err != nil {
				return err
			}
			wildStr, _ := cmd.Flags().GetString(flagWildColour)
			wild, err := parseColour(wildStr)
			if err != nil {
				return err
			}
			table, err := readTable(cmd, s.ID)
			if err != nil {
				return err
			}

			p, err := s.PreparePlay(card, uint8(wild), table, nil)
			if err != nil {
				return err
			}
			next, err := cc.advance(cmd, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "played %s; active colour %s; keep turn %v; draw counter %d\n",
				styledCard(card), p.ActiveColour, p.Effect.KeepTurn, p.Effect.DrawCount)
			return printSession(cmd, next)
		},
	}
	addIDFlag(cmd)
	cmd.Flags().String(flagCard, "", "card to play, e.g. green:7, blue:skip, wild, +4")
	cmd.Flags().String(flagWildColour, "red", "colour chosen with a wild")
	_ = cmd.MarkFlagRequired(flagCard)
	tableFlags(cmd)
	return cmd
}

func sessionDrawCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw the card at the ledger's draw counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cc.loadForMove(cmd)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetUint32(flagDrawCount)
			p, err := s.PrepareDraw(n, nil)
			if err != nil {
				return err
			}
			next, err := cc.advance(cmd, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "drew %s\n", styledCard(next.Hand[len(next.Hand)-1]))
			return printSession(cmd, next)
		},
	}
	addIDFlag(cmd)
	cmd.Flags().Uint32(flagDrawCount, cards.FirstDrawIndex, "ledger draw counter")
	return cmd
}

func sessionDeclareCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "declare",
		Short: "Prove the committed hand holds exactly one card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cc.loadForMove(cmd)
			if err != nil {
				return err
			}
			p, err := s.PrepareDeclare()
			if err != nil {
				return err
			}
			next, err := cc.advance(cmd, p)
			if err != nil {
				return err
			}
			return printSession(cmd, next)
		},
	}
	addIDFlag(cmd)
	return cmd
}

func sessionAdoptCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adopt",
		Short: "Adopt the pending transition once the ledger has accepted it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetUint32(flagID)
			next, err := cc.store().Promote(id)
			if err != nil {
				return err
			}
			cc.logger.Info("transition adopted", "session", id, "phase", next.Phase)
			return printSession(cmd, next)
		},
	}
	addIDFlag(cmd)
	return cmd
}

func sessionDiscardCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Drop the pending transition, keeping the adopted hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetUint32(flagID)
			store := cc.store()
			if err := store.Discard(id); err != nil {
				return err
			}
			s, err := store.Get(id)
			if err != nil {
				return err
			}
			return printSession(cmd, s)
		},
	}
	addIDFlag(cmd)
	return cmd
}

func sessionShowCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the adopted state of a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cc.loadSession(cmd)
			if err != nil {
				return err
			}
			if err := printSession(cmd, s); err != nil {
				return err
			}
			next, ok, err := cc.store().GetPending(s.ID)
			if err != nil || !ok {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pending:")
			return printSession(cmd, next)
		},
	}
	addIDFlag(cmd)
	return cmd
}

func sessionListCmd(cc *clientContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := cc.store().IDs()
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func printSession(cmd *cobra.Command, s game.Session) error {
	rows := [][]string{
		{"session", strconv.FormatUint(uint64(s.ID), 10)},
		{"seat", strconv.FormatUint(uint64(s.Slot), 10)},
		{"phase", string(s.Phase)},
	}
	if s.Phase != game.PhaseNoHand {
		rows = append(rows,
			[]string{"hand", styledHand(s.Hand)},
			[]string{"cards", strconv.Itoa(len(s.Hand))},
			[]string{"commitment", s.Commitment.String()},
		)
	}
	return printKV(cmd.OutOrStdout(), rows)
}

func proverCmd(cc *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prover",
		Short: "Prover server utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Probe the configured prover server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cc.cfg.Prover.Endpoint == "" {
				return fmt.Errorf("no prover endpoint configured")
			}
			r := prover.NewRemote(cc.cfg.Prover.Endpoint, cc.cfg.Prover.Timeout, cc.logger)
			if err := r.Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	})
	return cmd
}
