package types

const (
	// ModuleName is the codespace used for registered errors and the prefix of
	// ledger transaction types.
	ModuleName = "zkuno"

	// EnvPrefix is the environment variable prefix used by the CLI/config system.
	// Example: ZKUNO_HOME, ZKUNO_PROVER_ENDPOINT, etc.
	EnvPrefix = "ZKUNO"

	// BinaryName is the name of the CLI binary.
	BinaryName = "zkuno"
)
