package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmoreno/examterm/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the token pair used to authenticate against the backend",
	Long: "Stores an access/refresh token pair in the config file. Obtain the pair\n" +
		"from your institution's portal; ExamTerm refreshes it automatically while\n" +
		"you work.",
	RunE: func(cmd *cobra.Command, args []string) error {
		access, _ := cmd.Flags().GetString("access")
		refresh, _ := cmd.Flags().GetString("refresh")
		if access == "" {
			return fmt.Errorf("--access is required")
		}

		cfgPath, err := resolveConfigPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		if err := config.SaveTokens(cfgPath, access, refresh); err != nil {
			return err
		}
		fmt.Println("Credentials saved to", cfgPath)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("access", "", "Access token (required)")
	loginCmd.Flags().String("refresh", "", "Refresh token")
}
