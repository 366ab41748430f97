package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slotshift/pkg/sqlite"
)

var listViewer string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List occupied and locked slots",
	Long: `List prints every occupied or locked slot of one viewer, or of all
viewers when --viewer is not given.

Example:
  slotshift list
  slotshift list --viewer party --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			exitWith("list", err)
		}
		defer store.Detach()

		var viewers []string
		if listViewer != "" {
			viewers = []string{listViewer}
		} else {
			for _, v := range store.Viewers() {
				viewers = append(viewers, v.Name())
			}
		}

		var entries []sqlite.Entry
		for _, name := range viewers {
			got, err := store.Entries(name)
			if err != nil {
				exitWith("list", err)
			}
			entries = append(entries, got...)
		}

		if flagJSON {
			return printEntriesJSON(entries)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VIEWER\tSLOT\tRECORD\tLOCKED")
		for _, e := range entries {
			rec := "-"
			if e.Record != nil {
				rec = e.Record.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", e.Viewer, e.Addr, rec, e.Locked)
		}
		return w.Flush()
	},
}

type entryJSON struct {
	Viewer string `json:"viewer"`
	Slot   string `json:"slot"`
	Record any    `json:"record,omitempty"`
	Locked bool   `json:"locked,omitempty"`
}

func printEntriesJSON(entries []sqlite.Entry) error {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		item := entryJSON{Viewer: e.Viewer, Slot: e.Addr.String(), Locked: e.Locked}
		if e.Record != nil {
			item.Record = e.Record
		}
		out = append(out, item)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	listCmd.Flags().StringVar(&listViewer, "viewer", "", "only list this viewer")
}
