package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slotshift/internal/transport"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

var (
	exportViewer  string
	exportDir     string
	exportEncrypt bool
)

var exportCmd = &cobra.Command{
	Use:   "export <slot>...",
	Short: "Drag records out of the application into a directory",
	Long: `Export drags the given slots onto a directory, as a drop on a file
manager would. Each record is written as <stem>.pk, or <stem>.ek with
--encrypt. The sources keep their records.

Example:
  slotshift export 0:0 0:1 --dir ./out`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(exportDir)
		if err != nil {
			exitWith("export", err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			exitWith("export", err)
		}

		eng, err := openEngine()
		if err != nil {
			exitWith("export", err)
		}
		defer eng.Close()

		sources := make([]types.Slot, 0, len(args))
		for _, addr := range args {
			src, err := eng.slot(exportViewer, addr)
			if err != nil {
				eng.exitWith("export", err)
			}
			if src.IsEmpty() {
				eng.exitUsage("export", "%s is empty", src)
			}
			sources = append(sources, src)
		}

		target := transport.NewDirTarget(dir)
		if err := drag(eng, sources, target, exportEncrypt); err != nil {
			eng.exitWith("export", err)
		}
		for _, name := range target.Copied() {
			fmt.Println(filepath.Join(dir, name))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportViewer, "viewer", boxesViewer, "viewer holding the slots")
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "destination directory")
	exportCmd.Flags().BoolVar(&exportEncrypt, "encrypt", false, "write the encrypted form")
}
