// Package ledger submits proven transitions to the ledger.
package ledger

import (
	"context"
	"fmt"
	"io"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"

	"zkuno/internal/codec"
	"zkuno/internal/journal"
	"zkuno/internal/seal"
	"zkuno/internal/types"
)

// Submission is a journal and the seal that proves it.
type Submission struct {
	Player  string
	Journal journal.Journal
	Seal    seal.Seal
}

// Receipt identifies a submission. Confirmed is set only when the ledger
// executed the tx in a block with a success code; an unconfirmed receipt
// must not be adopted.
type Receipt struct {
	Type      string `json:"type"`
	TxHash    string `json:"txHash"`
	Height    int64  `json:"height,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

// Submitter sends a submission to the ledger. ErrSubmissionRejected means the
// ledger refused it; any other error leaves the outcome unknown.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

// Broadcaster is the subset of the CometBFT RPC client the submitter uses.
type Broadcaster interface {
	BroadcastTxCommit(ctx context.Context, tx cmttypes.Tx) (*coretypes.ResultBroadcastTxCommit, error)
}

// CometSubmitter broadcasts JSON tx envelopes to a CometBFT node and waits for
// them to be executed in a block.
type CometSubmitter struct {
	client Broadcaster
	logger log.Logger
}

func NewCometSubmitter(client Broadcaster, logger log.Logger) *CometSubmitter {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &CometSubmitter{client: client, logger: logger.With("module", "ledger")}
}

// DialComet returns a submitter for the node RPC at remote, e.g.
// "http://127.0.0.1:26657".
func DialComet(remote string, logger log.Logger) (*CometSubmitter, error) {
	client, err := rpchttp.New(remote)
	if err != nil {
		return nil, fmt.Errorf("rpc client %s: %w", remote, err)
	}
	return NewCometSubmitter(client, logger), nil
}

// Submit succeeds only if the tx passed CheckTx and then executed with code 0.
// CheckTx alone is mempool admission; seals and turn order are checked at
// execution.
func (c *CometSubmitter) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	env, err := codec.TxForJournal(sub.Player, sub.Journal, sub.Seal)
	if err != nil {
		return Receipt{}, err
	}
	tx, err := env.Encode()
	if err != nil {
		return Receipt{}, err
	}

	res, err := c.client.BroadcastTxCommit(ctx, tx)
	if err != nil {
		return Receipt{}, fmt.Errorf("broadcast %s: %w", env.Type, err)
	}
	if res.CheckTx.Code != abci.CodeTypeOK {
		c.logger.Warn("tx rejected by check", "type", env.Type, "code", res.CheckTx.Code, "codespace", res.CheckTx.Codespace, "log", res.CheckTx.Log)
		return Receipt{}, errorsmod.Wrapf(types.ErrSubmissionRejected, "%s: check code=%d codespace=%q log=%q",
			env.Type, res.CheckTx.Code, res.CheckTx.Codespace, res.CheckTx.Log)
	}
	if res.TxResult.Code != abci.CodeTypeOK {
		c.logger.Warn("tx failed in block", "type", env.Type, "height", res.Height, "code", res.TxResult.Code, "codespace", res.TxResult.Codespace, "log", res.TxResult.Log)
		return Receipt{}, errorsmod.Wrapf(types.ErrSubmissionRejected, "%s: exec code=%d codespace=%q log=%q height=%d",
			env.Type, res.TxResult.Code, res.TxResult.Codespace, res.TxResult.Log, res.Height)
	}

	c.logger.Info("tx committed", "type", env.Type, "hash", res.Hash.String(), "height", res.Height)
	return Receipt{Type: env.Type, TxHash: res.Hash.String(), Height: res.Height, Confirmed: true}, nil
}

// Printer writes encoded txs to W instead of broadcasting them, for offline
// use and for handing txs to another signer. Its receipts are never
// confirmed.
type Printer struct {
	W io.Writer
}

func (p Printer) Submit(_ context.Context, sub Submission) (Receipt, error) {
	env, err := codec.TxForJournal(sub.Player, sub.Journal, sub.Seal)
	if err != nil {
		return Receipt{}, err
	}
	tx, err := env.Encode()
	if err != nil {
		return Receipt{}, err
	}
	if _, err := fmt.Fprintf(p.W, "%s\n", tx); err != nil {
		return Receipt{}, fmt.Errorf("write tx: %w", err)
	}
	return Receipt{Type: env.Type, TxHash: fmt.Sprintf("%X", cmttypes.Tx(tx).Hash())}, nil
}
