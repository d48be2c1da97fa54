package prover

import (
	"context"
	"errors"

	"cosmossdk.io/log"

	"zkuno/internal/types"
)

// Fallback tries Primary and switches to Secondary only when Primary reports
// ErrProverUnavailable. Witness and legality errors are returned as-is.
type Fallback struct {
	Primary   Prover
	Secondary Prover
	Logger    log.Logger
}

func (f *Fallback) Prove(ctx context.Context, req Request) (Proof, error) {
	p, err := f.Primary.Prove(ctx, req)
	if err == nil || !errors.Is(err, types.ErrProverUnavailable) {
		return p, err
	}
	if f.Logger != nil {
		f.Logger.Warn("prover unavailable, using fallback", "kind", req.Kind, "session", req.SessionID, "err", err)
	}
	return f.Secondary.Prove(ctx, req)
}
