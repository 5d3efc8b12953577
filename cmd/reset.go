package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmoreno/examterm/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the local attempt history",
	Long: "Deletes the local attempt log and countdown marks. Attempts on the\n" +
		"server are not affected.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Local history cleared.")
		return nil
	},
}
