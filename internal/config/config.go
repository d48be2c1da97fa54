// Package config loads client configuration from flags, ZKUNO_* environment
// variables and an optional <home>/config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"zkuno/internal/prover"
	"zkuno/internal/seal"
	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

// Viper keys. Environment variables use the upper-case form with dots and
// dashes replaced by underscores, e.g. ZKUNO_PROVER_ENDPOINT.
const (
	KeyHome              = "home"
	KeyPlayer            = "player"
	KeyVerifier          = "verifier"
	KeySelector          = "selector"
	KeyProgramIDCommit   = "program_ids.commit"
	KeyProgramIDPlay     = "program_ids.play"
	KeyProgramIDDraw     = "program_ids.draw"
	KeyProgramIDDeclare  = "program_ids.declare"
	KeyProverEndpoint    = "prover.endpoint"
	KeyProverTimeout     = "prover.timeout"
	KeyLedgerRPC         = "ledger.rpc"
	KeyLogLevel          = "log_level"
	KeyLogJSON           = "log_json"
	configFileName       = "config"
	configFileType       = "toml"
	defaultProverTimeout = 5 * time.Minute
)

// DefaultHome is ~/.zkuno, or .zkuno in the working directory when the user
// home cannot be resolved.
var DefaultHome = defaultHome()

func defaultHome() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "." + types.BinaryName
	}
	return filepath.Join(dir, "."+types.BinaryName)
}

type ProgramIDs struct {
	Commit  string `mapstructure:"commit"`
	Play    string `mapstructure:"play"`
	Draw    string `mapstructure:"draw"`
	Declare string `mapstructure:"declare"`
}

type Prover struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type Ledger struct {
	// RPC is the CometBFT RPC address. Empty means txs are printed instead
	// of broadcast.
	RPC string `mapstructure:"rpc"`
}

type Config struct {
	Home       string     `mapstructure:"home"`
	Player     string     `mapstructure:"player"`
	Verifier   string     `mapstructure:"verifier"`
	Selector   string     `mapstructure:"selector"`
	ProgramIDs ProgramIDs `mapstructure:"program_ids"`
	Prover     Prover     `mapstructure:"prover"`
	Ledger     Ledger     `mapstructure:"ledger"`
	LogLevel   string     `mapstructure:"log_level"`
	LogJSON    bool       `mapstructure:"log_json"`
}

// Default returns the reference deployment's configuration.
func Default() Config {
	ids := seal.DefaultProgramIDs()
	return Config{
		Home:     DefaultHome,
		Verifier: string(prover.VerifierMock),
		Selector: seal.DefaultSelector.String(),
		ProgramIDs: ProgramIDs{
			Commit:  ids.Commit.String(),
			Play:    ids.Play.String(),
			Draw:    ids.Draw.String(),
			Declare: ids.Declare.String(),
		},
		Prover:   Prover{Timeout: defaultProverTimeout},
		LogLevel: "info",
	}
}

// SetDefaults registers Default() on v and wires the environment.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyHome, d.Home)
	v.SetDefault(KeyPlayer, d.Player)
	v.SetDefault(KeyVerifier, d.Verifier)
	v.SetDefault(KeySelector, d.Selector)
	v.SetDefault(KeyProgramIDCommit, d.ProgramIDs.Commit)
	v.SetDefault(KeyProgramIDPlay, d.ProgramIDs.Play)
	v.SetDefault(KeyProgramIDDraw, d.ProgramIDs.Draw)
	v.SetDefault(KeyProgramIDDeclare, d.ProgramIDs.Declare)
	v.SetDefault(KeyProverEndpoint, d.Prover.Endpoint)
	v.SetDefault(KeyProverTimeout, d.Prover.Timeout)
	v.SetDefault(KeyLedgerRPC, d.Ledger.RPC)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogJSON, d.LogJSON)

	v.SetEnvPrefix(types.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads <home>/config.toml when present and decodes v into a validated
// Config. Flags bound to v take precedence over the environment, which takes
// precedence over the file.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(v.GetString(KeyHome))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that is parsed later.
func (c Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("home must be set")
	}
	if _, err := prover.ParseVerifierMode(c.Verifier); err != nil {
		return err
	}
	if _, err := c.SealBuilder(); err != nil {
		return err
	}
	if c.Prover.Timeout < 0 {
		return fmt.Errorf("prover.timeout must be >= 0")
	}
	return nil
}

// SealBuilder returns the mock seal builder for the configured program ids
// and selector.
func (c Config) SealBuilder() (seal.Builder, error) {
	sel, err := seal.ParseSelector(c.Selector)
	if err != nil {
		return seal.Builder{}, fmt.Errorf("selector: %w", err)
	}
	var ids seal.ProgramIDs
	for _, f := range []struct {
		name string
		in   string
		out  *zkcrypto.Hash
	}{
		{"commit", c.ProgramIDs.Commit, &ids.Commit},
		{"play", c.ProgramIDs.Play, &ids.Play},
		{"draw", c.ProgramIDs.Draw, &ids.Draw},
		{"declare", c.ProgramIDs.Declare, &ids.Declare},
	} {
		h, err := zkcrypto.ParseHash(f.in)
		if err != nil {
			return seal.Builder{}, fmt.Errorf("program_ids.%s: %w", f.name, err)
		}
		*f.out = h
	}
	return seal.Builder{ProgramIDs: ids, Selector: sel}, nil
}

// ProverOptions returns the options for prover.New.
func (c Config) ProverOptions() (prover.Options, error) {
	b, err := c.SealBuilder()
	if err != nil {
		return prover.Options{}, err
	}
	mode, err := prover.ParseVerifierMode(c.Verifier)
	if err != nil {
		return prover.Options{}, err
	}
	return prover.Options{
		Endpoint: c.Prover.Endpoint,
		Timeout:  c.Prover.Timeout,
		Verifier: mode,
		Seals:    b,
	}, nil
}
