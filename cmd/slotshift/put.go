package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slotshift/internal/entity"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

var (
	putSpecies  int
	putNickname string
	putLanguage string
	putEgg      bool
)

var putCmd = &cobra.Command{
	Use:   "put <viewer> <slot>",
	Short: "Create a record in a slot",
	Long: `Put writes a new record into a slot, replacing whatever it held.
Box slots are written container:index, party slots party:index or index.

Example:
  slotshift put boxes 0:3 --species 25 --nickname Sparky
  slotshift put party 0 --species 4 --language ja`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if putSpecies <= 0 {
			exitUsage("put", "--species must be positive")
		}
		eng, err := openEngine()
		if err != nil {
			exitWith("put", err)
		}
		defer eng.Close()

		slot, err := eng.slot(args[0], args[1])
		if err != nil {
			eng.exitWith("put", err)
		}
		rec := entity.New(slot.View.RecordFormat(), putSpecies, putNickname, putLanguage)
		rec.Egg = putEgg
		if blocked := slot.CanWriteTo(rec); blocked != types.WriteBlockedNone {
			eng.exitWith("put", fmt.Errorf("%w: %s: %s", types.ErrWriteBlocked, slot, blocked))
		}
		if err := eng.store.Editor().Set(slot, rec, types.TouchSet); err != nil {
			eng.exitWith("put", err)
		}
		fmt.Printf("%s: %s\n", slot, rec)
		return nil
	},
}

func init() {
	putCmd.Flags().IntVar(&putSpecies, "species", 0, "species number (required)")
	putCmd.Flags().StringVar(&putNickname, "nickname", "", "nickname")
	putCmd.Flags().StringVar(&putLanguage, "language", "en", "language variant")
	putCmd.Flags().BoolVar(&putEgg, "egg", false, "store as an unhatched egg")
}
