package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaforge/sqlbridge/pkg/db"
)

const version = "0.1.0"

// Global flag values.
var (
	flagConfig   string
	flagMinConns uint32
	flagMaxConns uint32
)

// database is the handle opened by PersistentPreRunE for commands that
// need one.
var database *db.Database

var rootCmd = &cobra.Command{
	Use:     "sqlbridge",
	Short:   "sqlbridge talks to SQLite, MySQL or Postgres through one surface",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsDatabase(cmd) {
			return nil
		}
		var opts []db.Option
		if flagMinConns != 0 {
			opts = append(opts, db.WithMinConnections(flagMinConns))
		}
		if flagMaxConns != 0 {
			opts = append(opts, db.WithMaxConnections(flagMaxConns))
		}
		d, err := db.ConnectFromConfig(cmd.Context(), flagConfig, opts...)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		database = d
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if database == nil {
			return nil
		}
		return database.Close()
	},
}

// needsDatabase reports whether cmd talks to a backend. Informational
// commands, including cobra's generated help and completion trees, must run
// without a config file.
func needsDatabase(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return false
		}
	}
	return true
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "sqlbridge.toml", "config file with a database section")
	rootCmd.PersistentFlags().Uint32Var(&flagMinConns, "min-connections", 0, "minimum pool size (default per driver)")
	rootCmd.PersistentFlags().Uint32Var(&flagMaxConns, "max-connections", 0, "maximum pool size (default per driver)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(execCmd)
}
