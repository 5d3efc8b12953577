package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nmoreno/examterm/internal/api"
	"github.com/nmoreno/examterm/internal/app"
	"github.com/nmoreno/examterm/internal/config"
	"github.com/nmoreno/examterm/internal/logger"
	"github.com/nmoreno/examterm/internal/store"
)

// runApp loads config, opens the store, wires the gateway, and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	cfgPath, err := resolveConfigPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.File, cfg.Log.Level)
	defer log.Sync()

	creds := api.Credentials{
		Access:  cfg.Auth.AccessToken,
		Refresh: cfg.Auth.RefreshToken,
	}
	if creds.Empty() {
		return config.ErrNoCredentials
	}

	client := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, &creds, log, func() {
		// Forced logout: drop the stored pair so the next start asks for
		// a fresh login instead of looping on dead tokens.
		if err := config.ClearTokens(cfgPath); err != nil {
			log.Error("clear stored tokens failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "Session expired. Run `examterm login` to sign in again.")
	})

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	return app.Run(app.Options{
		Client: client,
		Store:  st,
		Config: cfg,
		Log:    log,
	})
}
