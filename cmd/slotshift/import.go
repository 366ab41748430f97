package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

var (
	importViewer string
	importTo     string
)

var importCmd = &cobra.Command{
	Use:   "import <file|dir>",
	Short: "Drop a file from outside the application onto a slot",
	Long: `Import drops a record file onto --to, converting it to the storage
format. Files that are not records are passed on untouched. Dropping a
directory loads the slots.jsonl snapshot it contains.

Example:
  slotshift import ./out/025-sparky-1a2b3c4d.pk --to 3:0
  slotshift import ./backup --to 0:0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if importTo == "" {
			exitUsage("import", "--to is required")
		}
		path, err := filepath.Abs(args[0])
		if err != nil {
			exitWith("import", err)
		}

		eng, err := openEngine()
		if err != nil {
			exitWith("import", err)
		}
		defer eng.Close()

		dest, err := eng.slot(importViewer, importTo)
		if err != nil {
			eng.exitWith("import", err)
		}
		paths := []string{path}
		if eng.orch.DragEnter(types.DragEnterEvent{Slot: &dest, Allowed: types.EffectCopy, HasPayload: true}) == types.EffectNone {
			eng.exitUsage("import", "drop refused")
		}
		eng.orch.QueryContinueDrag(types.DragDrop)
		if _, err := eng.orch.Drop(types.DropEvent{Slot: &dest, Paths: paths}); err != nil {
			eng.exitWith("import", err)
		}
		if rec, err := dest.Read(); err == nil && !rec.IsBlank() {
			fmt.Printf("%s: %v\n", dest, rec)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importViewer, "viewer", boxesViewer, "viewer holding the destination")
	importCmd.Flags().StringVar(&importTo, "to", "", "destination slot")
}
