package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Write a JSONL snapshot of every slot",
	Long: `Dump writes every occupied or locked slot to a JSONL file. A directory
holding the snapshot as slots.jsonl can be dropped back with import or
loaded with load.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			exitWith("dump", err)
		}
		defer store.Detach()

		path, err := filepath.Abs(args[0])
		if err != nil {
			exitWith("dump", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			exitWith("dump", err)
		}
		if err := store.ExportJSONL(path); err != nil {
			exitWith("dump", err)
		}
		fmt.Println(path)
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <file|dir>",
	Short: "Replace viewer contents from a JSONL snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			exitWith("load", err)
		}
		defer store.Detach()

		info, err := os.Stat(args[0])
		if err != nil {
			exitUsage("load", "%v", err)
		}
		if info.IsDir() {
			if err := store.LoadContainers(args[0]); err != nil {
				exitWith("load", err)
			}
			fmt.Println("loaded", args[0])
			return nil
		}
		n, err := store.ImportJSONL(args[0])
		if err != nil {
			exitWith("load", err)
		}
		fmt.Printf("loaded %d slot(s)\n", n)
		return nil
	},
}
