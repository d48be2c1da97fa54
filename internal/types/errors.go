package types

import errorsmod "cosmossdk.io/errors"

// zkuno sentinel errors.
var (
	ErrMalformedInput     = errorsmod.Register(ModuleName, 1, "malformed input")
	ErrLegalityViolation  = errorsmod.Register(ModuleName, 2, "illegal move")
	ErrProverUnavailable  = errorsmod.Register(ModuleName, 3, "prover unavailable")
	ErrInvalidTransition  = errorsmod.Register(ModuleName, 4, "invalid session transition")
	ErrSubmissionRejected = errorsmod.Register(ModuleName, 5, "submission rejected by ledger")
	ErrMockSealRefused    = errorsmod.Register(ModuleName, 6, "mock seal refused for groth16 verifier")
)
