package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"borg-link/feature/borg"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var notifyDownstream bool

// importCmd imports a single item synchronously.
var importCmd = &cobra.Command{
	Use:   "import <id>",
	Short: "Import one borg from the contract",
	Long:  `Fetches a borg from the contract, uploads its images and stores it. An item already stored is returned unchanged.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < borg.FirstItemID {
			return fmt.Errorf("invalid id %q", args[0])
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.borg.Coordinator().SaveImported(cmd.Context(), id, notifyDownstream)
		if err != nil {
			return fmt.Errorf("failed to import borg %d: %w", id, err)
		}
		if item == nil {
			a.logger.Warn("Borg not available on chain", zap.Int("id", id))
			return nil
		}

		data, err := json.MarshalIndent(borg.ToView(item), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&notifyDownstream, "notify", false, "Notify the downstream webhook after import")
	RootCmd.AddCommand(importCmd)
}
