package prover

import (
	"context"

	"zkuno/internal/seal"
)

// Mock builds mock seals locally. It needs no zkVM and no network.
type Mock struct {
	seals seal.Builder
}

func NewMock(seals seal.Builder) *Mock {
	return &Mock{seals: seals}
}

func (m *Mock) Prove(ctx context.Context, req Request) (Proof, error) {
	if err := ctx.Err(); err != nil {
		return Proof{}, err
	}
	j, err := req.Journal()
	if err != nil {
		return Proof{}, err
	}
	s, err := m.seals.BuildMock(j)
	if err != nil {
		return Proof{}, err
	}
	return Proof{Seal: s, Journal: j.Bytes(), IsMock: true}, nil
}
