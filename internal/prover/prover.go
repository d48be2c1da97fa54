// Package prover obtains seals for journals, either from a remote prover
// server or by building a mock seal locally.
package prover

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"zkuno/internal/seal"
	"zkuno/internal/types"
)

// VerifierMode is the kind of verifier the ledger routes seals to.
type VerifierMode string

const (
	// VerifierMock accepts any seal whose claim digest matches the journal.
	VerifierMock VerifierMode = "mock"
	// VerifierGroth16 checks real Groth16 proofs. Mock seals are never sent to it.
	VerifierGroth16 VerifierMode = "groth16"
)

// ParseVerifierMode validates a verifier mode name.
func ParseVerifierMode(s string) (VerifierMode, error) {
	switch VerifierMode(s) {
	case VerifierMock, VerifierGroth16:
		return VerifierMode(s), nil
	default:
		return "", errorsmod.Wrapf(types.ErrMalformedInput, "unknown verifier mode %q (want mock or groth16)", s)
	}
}

// Proof is a seal together with the journal it attests.
type Proof struct {
	Seal    seal.Seal
	Journal []byte
	IsMock  bool
}

// Prover turns a witness into a proof.
type Prover interface {
	Prove(ctx context.Context, req Request) (Proof, error)
}

// Options selects and configures the prover chain.
type Options struct {
	Endpoint string
	Timeout  time.Duration
	Verifier VerifierMode
	Seals    seal.Builder
}

// New wires the prover chain for opts:
//
//	mock verifier, no endpoint:  local mock
//	mock verifier, endpoint:     remote, falling back to the local mock
//	groth16 verifier:            remote only
//
// The result always refuses mock seals under a groth16 verifier.
func New(opts Options, logger log.Logger) (Prover, error) {
	mode, err := ParseVerifierMode(string(opts.Verifier))
	if err != nil {
		return nil, err
	}

	var p Prover
	switch {
	case opts.Endpoint == "" && mode == VerifierGroth16:
		return nil, errorsmod.Wrap(types.ErrProverUnavailable, "groth16 verifier requires a prover endpoint")
	case opts.Endpoint == "":
		p = NewMock(opts.Seals)
	case mode == VerifierMock:
		p = &Fallback{
			Primary:   NewRemote(opts.Endpoint, opts.Timeout, logger),
			Secondary: NewMock(opts.Seals),
			Logger:    logger,
		}
	default:
		p = NewRemote(opts.Endpoint, opts.Timeout, logger)
	}
	return Guard{Prover: p, Mode: mode}, nil
}

// Guard refuses mock seals when the ledger verifies real proofs.
type Guard struct {
	Prover Prover
	Mode   VerifierMode
}

func (g Guard) Prove(ctx context.Context, req Request) (Proof, error) {
	p, err := g.Prover.Prove(ctx, req)
	if err != nil {
		return Proof{}, err
	}
	if p.IsMock && g.Mode != VerifierMock {
		return Proof{}, errorsmod.Wrapf(types.ErrMockSealRefused, "%s proof from a mock prover", req.Kind)
	}
	return p, nil
}
