// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the sample-keys
// tool using the Cobra library. The tool deterministically generates
// account keyfiles and public address files for test deployments.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/ledgersmith/buildvars"
	"github.com/toeirei/ledgersmith/internal/config"
	"github.com/toeirei/ledgersmith/internal/fog"
	"github.com/toeirei/ledgersmith/internal/i18n"
	"github.com/toeirei/ledgersmith/internal/keyfile"
	"github.com/toeirei/ledgersmith/internal/logging"
	"github.com/toeirei/ledgersmith/internal/sample"
	"golang.org/x/term"
)

var cfgFile string

// keysConfig is the resolved configuration for a sample-keys run. The
// mapstructure keys match the flag names, so flags, LEDGERSMITH_* env
// vars and config file entries all land in the same place.
type keysConfig struct {
	Language         string `mapstructure:"lang"`
	Debug            bool   `mapstructure:"debug"`
	Num              int    `mapstructure:"num"`
	OutputDir        string `mapstructure:"output-dir"`
	Seed             uint64 `mapstructure:"seed"`
	FogReportURL     string `mapstructure:"fog-report-url"`
	FogReportID      string `mapstructure:"fog-report-id"`
	FogAuthorityRoot string `mapstructure:"fog-authority-root"`
	Encrypt          bool   `mapstructure:"encrypt"`
}

var appConfig keysConfig

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}

var rootCmd = newRootCmd()

// newRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample-keys",
		Short: "Deterministically generate sample account keys",
		Long: `sample-keys writes a set of account keyfiles and matching public
address files derived from a seed. The same seed always produces the
same files, and growing the account count keeps the existing files
byte-identical, so test fixtures stay stable across runs.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setupConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := sample.KeyParams{
				Num:          appConfig.Num,
				Seed:         appConfig.Seed,
				FogReportURL: appConfig.FogReportURL,
				FogReportID:  appConfig.FogReportID,
			}

			if appConfig.FogAuthorityRoot != "" {
				pemData, err := os.ReadFile(appConfig.FogAuthorityRoot)
				if err != nil {
					return fmt.Errorf("%s: %w", i18n.T("cli.error_fog_root"), err)
				}
				spki, err := fog.AuthoritySPKI(pemData)
				if err != nil {
					return fmt.Errorf("%s: %w", i18n.T("cli.error_fog_root"), err)
				}
				p.FogAuthoritySPKI = spki
			}

			addresses, err := sample.GenerateSampleKeys(appConfig.OutputDir, p)
			if err != nil {
				return fmt.Errorf("%s: %w", i18n.T("cli.error_write_keys"), err)
			}

			if appConfig.Encrypt {
				if err := encryptKeyfiles(appConfig.OutputDir, len(addresses)); err != nil {
					return err
				}
			}

			fmt.Printf("%s: %d -> %s\n", i18n.T("cli.keys_generated"), len(addresses), filepath.Join(appConfig.OutputDir, sample.KeysDirName))
			return nil
		},
	}

	// Set version
	cmd.Version = buildvars.VersionOrDefault("dev")

	// Define flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ledgersmith.yaml in the user config dir or current dir)")
	cmd.PersistentFlags().String("lang", "en", `output language ("en", "de")`)
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().Int("num", 10, "Number of accounts to generate")
	cmd.Flags().String("output-dir", ".", "Directory to write the account_keys/ tree into")
	cmd.Flags().Uint64("seed", 0, "Deterministic seed for key generation")
	cmd.Flags().String("fog-report-url", "", "Fog report server URL to embed in the public addresses")
	cmd.Flags().String("fog-report-id", "", "Fog report ID to embed in the public addresses")
	cmd.Flags().String("fog-authority-root", "", "Path to a PEM file with the fog authority certificate chain")
	cmd.Flags().Bool("encrypt", false, "Encrypt the generated keyfiles with a passphrase")

	return cmd
}

// setupConfig resolves the effective configuration (flags > env > file >
// defaults) and initializes logging and i18n from it.
func setupConfig(cmd *cobra.Command, args []string) error {
	defaults := map[string]any{
		"lang":               "en",
		"debug":              false,
		"num":                10,
		"output-dir":         ".",
		"seed":               uint64(0),
		"fog-report-url":     "",
		"fog-report-id":      "",
		"fog-authority-root": "",
		"encrypt":            false,
	}

	var cfgPath *string
	if cfgFile != "" {
		cfgPath = &cfgFile
	}

	c, err := config.LoadConfig[keysConfig](cmd, defaults, cfgPath)
	if err != nil {
		// A missing config file is expected; anything else is fatal.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("error loading config: %w", err)
		}
	}
	appConfig = c

	logging.SetDebug(appConfig.Debug)
	i18n.Init(appConfig.Language)
	return nil
}

// encryptKeyfiles replaces the freshly written plaintext keyfiles with
// passphrase-encrypted envelopes. The public address files stay as they are.
func encryptKeyfiles(outputDir string, num int) error {
	passphrase, err := promptPassphrase()
	if err != nil {
		return err
	}

	keysDir := filepath.Join(outputDir, sample.KeysDirName)
	for i := 0; i < num; i++ {
		path := filepath.Join(keysDir, fmt.Sprintf("account_%d.json", i))
		k, err := keyfile.ReadKeyfile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", i18n.T("cli.error_write_keys"), err)
		}
		if err := keyfile.WriteEncrypted(path, passphrase, k); err != nil {
			return fmt.Errorf("%s: %w", i18n.T("cli.error_write_keys"), err)
		}
	}
	logging.Infof("encrypted %d keyfiles in %s", num, keysDir)
	return nil
}

// promptPassphrase reads a passphrase twice from the terminal without echo
// and makes sure both entries match.
func promptPassphrase() (string, error) {
	fmt.Print(i18n.T("cli.prompt_passphrase"))
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("%s: %w", i18n.T("cli.error_passphrase"), err)
	}

	fmt.Print(i18n.T("cli.prompt_passphrase_confirm"))
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("%s: %w", i18n.T("cli.error_passphrase"), err)
	}

	if string(first) != string(second) {
		return "", errors.New(i18n.T("cli.error_passphrase_mismatch"))
	}
	return string(first), nil
}
