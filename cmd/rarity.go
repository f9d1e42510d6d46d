package cmd

import (
	"fmt"
	"strconv"

	"borg-link/feature/borg"

	"github.com/spf13/cobra"
)

// rarityCmd prints the rarity score of a stored borg.
var rarityCmd = &cobra.Command{
	Use:   "rarity <id>",
	Short: "Print the rarity score of a borg",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		rarity, err := a.borg.Service().Rarity(cmd.Context(), id)
		if err != nil {
			return err
		}
		if rarity == borg.UnknownRarity {
			return fmt.Errorf("borg %d is not stored", id)
		}
		fmt.Printf("Borg %d rarity: %.6f\n", id, rarity)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(rarityCmd)
}
