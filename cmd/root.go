package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nmoreno/examterm/internal/config"
	"github.com/nmoreno/examterm/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "examterm",
	Short: "Terminal client for timed comprehension tests",
	Long:  "ExamTerm — take timed reading and listening comprehension tests from your terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides EXAMTERM_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EXAMTERM_DB env var)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigPath returns the config file path using --config (highest
// priority), then EXAMTERM_CONFIG, then the default XDG path.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	return config.DefaultConfigPath()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then EXAMTERM_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
