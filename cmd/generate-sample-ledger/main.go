// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the
// generate-sample-ledger tool using the Cobra library. It defines the root
// command, the export/import/maintain subcommands, flags, and the main
// entry point for execution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/ledgersmith/buildvars"
	"github.com/toeirei/ledgersmith/internal/config"
	"github.com/toeirei/ledgersmith/internal/i18n"
	"github.com/toeirei/ledgersmith/internal/ledgerdb"
	"github.com/toeirei/ledgersmith/internal/logging"
	"github.com/toeirei/ledgersmith/internal/sample"
	"github.com/toeirei/ledgersmith/internal/units"
)

var cfgFile string

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()

	// Set defaults in viper. These are used if not set in the config file or by flags.
	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.dsn", "./ledgersmith.db")
	viper.SetDefault("language", "en")
	viper.SetDefault("debug", false)
	viper.SetDefault("ledger.keys_dir", "./account_keys")
	viper.SetDefault("ledger.txos_per_account", 100)
	viper.SetDefault("ledger.amount", uint64(units.Coin))
	viper.SetDefault("ledger.seed", uint64(0))
}

// newRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-sample-ledger",
		Short: "Bootstrap a deterministic sample ledger database",
		Long: `generate-sample-ledger reads the public address files produced by
sample-keys and writes an origin block distributing outputs to those
addresses into a ledger database. The same seed and inputs always
produce the same origin block.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize the database for all commands.
			// Viper has already read the config by this point.
			i18n.Init(viper.GetString("language"))
			logging.SetDebug(viper.GetBool("debug"))
			ledgerdb.SetDebug(viper.GetBool("debug"))
			dbType := viper.GetString("database.type")
			dsn := viper.GetString("database.dsn")
			if err := ledgerdb.InitDB(dbType, dsn); err != nil {
				return fmt.Errorf("%s: %w", i18n.T("cli.error_init_db"), err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// The database is already initialized by PersistentPreRunE.
			addresses, err := sample.ReadPubfiles(viper.GetString("ledger.keys_dir"))
			if err != nil {
				return fmt.Errorf("%s: %w", i18n.T("cli.error_read_keys"), err)
			}
			if len(addresses) == 0 {
				return fmt.Errorf("%s: %s", i18n.T("cli.error_no_addresses"), viper.GetString("ledger.keys_dir"))
			}

			p := sample.LedgerParams{
				TxOutsPerAccount: viper.GetInt("ledger.txos_per_account"),
				Amount:           units.Amount(viper.GetUint64("ledger.amount")),
				Seed:             viper.GetUint64("ledger.seed"),
			}
			origin, err := sample.InitializeLedger(ledgerdb.Default(), addresses, p)
			if err != nil {
				return fmt.Errorf("%s: %w", i18n.T("cli.error_init_ledger"), err)
			}

			fmt.Printf("%s: %d accounts, %d outputs, origin %x\n",
				i18n.T("cli.ledger_initialized"), len(addresses), origin.CumulativeTxOutCount, origin.ID)
			return nil
		},
	}

	// Add subcommands to the newly created root command.
	cmd.AddCommand(exportCmd)
	cmd.AddCommand(importCmd)
	cmd.AddCommand(maintainCmd)

	// Set version
	cmd.Version = buildvars.VersionOrDefault("dev")

	// Define flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ledgersmith.yaml or ./ledgersmith.yaml)")
	cmd.PersistentFlags().String("db-type", "sqlite", "Database type (e.g., sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "./ledgersmith.db", "Database connection string (DSN)")
	cmd.PersistentFlags().String("lang", "en", `output language ("en", "de")`)
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().String("keys-dir", "./account_keys", "Directory holding the .pub address files")
	cmd.Flags().Int("txos-per-account", 100, "Number of origin outputs per account")
	cmd.Flags().Uint64("amount", uint64(units.Coin), "Value of each origin output in picocoins")
	cmd.Flags().Uint64("seed", 0, "Deterministic seed for output key generation")

	// Bind flags to viper
	viper.BindPFlag("database.type", cmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("database.dsn", cmd.PersistentFlags().Lookup("db-dsn"))
	viper.BindPFlag("language", cmd.PersistentFlags().Lookup("lang"))
	viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("ledger.keys_dir", cmd.Flags().Lookup("keys-dir"))
	viper.BindPFlag("ledger.txos_per_account", cmd.Flags().Lookup("txos-per-account"))
	viper.BindPFlag("ledger.amount", cmd.Flags().Lookup("amount"))
	viper.BindPFlag("ledger.seed", cmd.Flags().Lookup("seed"))

	return cmd
}

// initConfig reads in a configuration file and environment variables.
// It uses Viper to search for a config file (e.g., .ledgersmith.yaml) in the
// home and current directories. If a config file is not found, it writes a
// default one so the configuration is discoverable. It also binds environment
// variables prefixed with "LEDGERSMITH".
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory and current directory with name ".ledgersmith" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ledgersmith")
	}

	viper.SetEnvPrefix("LEDGERSMITH")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can create one with default values
		// to make configuration discoverable for the user.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			c := config.Config{Language: "en"}
			c.Database.Type = "sqlite"
			c.Database.Dsn = "./ledgersmith.db"
			// If writing fails (e.g., due to permissions), we don't treat it as a
			// fatal error. The app will simply run with the default values set in memory.
			if err := config.WriteConfigFile(&c, false); err != nil {
				logging.Warnf("could not write default config file: %v", err)
			} else if path, perr := config.GetConfigPath(false); perr == nil {
				logging.Infof("no config file found, created a default at %s", path)
			}
		}
	}
}

// exportCmd represents the 'export' command. It serializes the whole ledger
// into a compressed archive file that 'import' can restore elsewhere.
var exportCmd = &cobra.Command{
	Use:   "export <archive-file>",
	Short: "Export the ledger to a compressed archive",
	Long:  `Serializes every block, its outputs, key images and signature into a zstd-compressed JSON archive.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// DB is initialized in PersistentPreRunE.
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", i18n.T("cli.error_export"), err)
		}
		defer f.Close()

		archive, err := ledgerdb.ExportArchiveToWriter(ledgerdb.Default(), f)
		if err != nil {
			return fmt.Errorf("%s: %w", i18n.T("cli.error_export"), err)
		}

		fmt.Printf("%s: %s (%d blocks, id %s)\n", i18n.T("cli.archive_written"), args[0], len(archive.Blocks), archive.ArchiveID)
		return nil
	},
}

// importCmd represents the 'import' command. It restores a ledger archive
// into an empty database, re-validating the chain along the way.
var importCmd = &cobra.Command{
	Use:   "import <archive-file>",
	Short: "Import a ledger archive into an empty database",
	Long:  `Reads a zstd-compressed JSON archive written by 'export' and appends its blocks to an empty ledger database. Every block is verified and chain continuity is checked before anything is written.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// DB is initialized in PersistentPreRunE.
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", i18n.T("cli.error_import"), err)
		}
		defer f.Close()

		archive, err := ledgerdb.ImportArchiveFromReader(ledgerdb.Default(), f)
		if err != nil {
			return fmt.Errorf("%s: %w", i18n.T("cli.error_import"), err)
		}

		fmt.Printf("%s: %d blocks (id %s)\n", i18n.T("cli.archive_restored"), len(archive.Blocks), archive.ArchiveID)
		return nil
	},
}

// maintainCmd represents the 'maintain' command. It runs the engine-specific
// housekeeping statements against the configured database.
var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Run database maintenance",
	Long:  `Runs engine-specific maintenance against the configured database: VACUUM and integrity checks for SQLite, VACUUM ANALYZE for PostgreSQL, OPTIMIZE TABLE for MySQL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := viper.GetString("database.type")
		dsn := viper.GetString("database.dsn")
		if err := ledgerdb.RunDBMaintenance(dbType, dsn); err != nil {
			return fmt.Errorf("%s: %w", i18n.T("cli.error_maintenance"), err)
		}
		fmt.Println(i18n.T("cli.maintenance_done"))
		return nil
	},
}
