package cmd

import (
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zkuno/internal/config"
	"zkuno/internal/types"
)

const (
	flagHome           = "home"
	flagPlayer         = "player"
	flagVerifier       = "verifier"
	flagProverEndpoint = "prover-endpoint"
	flagLedgerRPC      = "ledger-rpc"
	flagLogLevel       = "log-level"
	flagLogJSON        = "log-json"
)

// clientContext is what every command gets after the persistent pre-run.
type clientContext struct {
	viper  *viper.Viper
	cfg    config.Config
	logger log.Logger
}

// NewRootCmd creates the zkuno root command. It is called once in main.
func NewRootCmd() *cobra.Command {
	cc := &clientContext{viper: viper.New(), logger: log.NewNopLogger()}

	rootCmd := &cobra.Command{
		Use:           types.BinaryName,
		Short:         "ZK-UNO client: deterministic deck, hand commitments and proof journals",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			cfg, err := config.Load(cc.viper)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogJSON)
			if err != nil {
				return err
			}
			cc.cfg = cfg
			cc.logger = logger
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String(flagHome, config.DefaultHome, "client home directory (sessions.json, config.toml)")
	pf.String(flagPlayer, "", "ledger address of the local player")
	pf.String(flagVerifier, "mock", "ledger verifier: mock or groth16")
	pf.String(flagProverEndpoint, "", "prover server URL; empty proves locally with mock seals")
	pf.String(flagLedgerRPC, "", "CometBFT RPC address; empty prints txs instead of broadcasting")
	pf.String(flagLogLevel, zerolog.InfoLevel.String(), "log level (trace|debug|info|warn|error)")
	pf.Bool(flagLogJSON, false, "emit JSON logs")

	for key, flag := range map[string]string{
		config.KeyHome:           flagHome,
		config.KeyPlayer:         flagPlayer,
		config.KeyVerifier:       flagVerifier,
		config.KeyProverEndpoint: flagProverEndpoint,
		config.KeyLedgerRPC:      flagLedgerRPC,
		config.KeyLogLevel:       flagLogLevel,
		config.KeyLogJSON:        flagLogJSON,
	} {
		if err := cc.viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		dealCmd(),
		cardCmd(),
		topCmd(),
		commitCmd(),
		journalCmd(),
		sealCmd(cc),
		sessionCmd(cc),
		proverCmd(cc),
	)
	return rootCmd
}

func newLogger(w io.Writer, level string, json bool) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := []log.Option{log.LevelOption(lvl)}
	if json {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...).With("module", types.ModuleName), nil
}
