package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nmoreno/examterm/internal/api"
	"github.com/nmoreno/examterm/internal/config"
	"github.com/nmoreno/examterm/internal/logger"
	"github.com/nmoreno/examterm/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results [attempt-id]",
	Short: "Print the analysis of a submitted attempt",
	Long: "Fetches and prints the scoring analysis without opening the TUI.\n" +
		"Without an argument, the most recently submitted attempt is used.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := resolveConfigPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		attemptID := 0
		if len(args) == 1 {
			attemptID, err = strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("attempt-id must be a number: %q", args[0])
			}
		} else {
			dbPath, err := resolveDBPath(cmd)
			if err != nil {
				return fmt.Errorf("resolve DB path: %w", err)
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			id, ok, err := st.AttemptLog().LastSubmitted(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no submitted attempt in the local log; pass an attempt-id")
			}
			attemptID = id
		}

		creds := api.Credentials{
			Access:  cfg.Auth.AccessToken,
			Refresh: cfg.Auth.RefreshToken,
		}
		if creds.Empty() {
			return config.ErrNoCredentials
		}
		log := logger.New(cfg.Log.File, cfg.Log.Level)
		defer log.Sync()

		client := api.New(api.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
		}, &creds, log, nil)

		a, err := client.TestAnalysis(cmd.Context(), attemptID)
		if err != nil {
			return err
		}

		printAnalysis(attemptID, a)
		return nil
	},
}

func printAnalysis(attemptID int, a *api.Analysis) {
	fmt.Printf("Attempt #%d\n", attemptID)
	switch {
	case a.Passed == nil:
		fmt.Println("Result: pending")
	case *a.Passed:
		fmt.Println("Result: PASSED")
	default:
		fmt.Println("Result: NOT PASSED")
	}
	if a.Score != nil {
		fmt.Printf("Score: %.1f\n", *a.Score)
	}
	if a.Summary != "" {
		fmt.Println()
		fmt.Println(a.Summary)
	}
	printSection := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Println()
		fmt.Println(heading + ":")
		for _, it := range items {
			fmt.Println("  -", it)
		}
	}
	printSection("Strengths", a.Strengths)
	printSection("Weaknesses", a.Weaknesses)
	printSection("Recommendations", a.Recommendations)
}
