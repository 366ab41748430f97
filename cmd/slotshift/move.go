package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slotshift/internal/transport"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

var (
	moveViewer    string
	moveToViewer  string
	moveFrom      []string
	moveTo        string
	moveClone     bool
	moveOverwrite bool
	moveSwap      bool
	moveEncrypt   bool
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Drag one or more records onto a slot",
	Long: `Move performs a drag from the --from slots and drops it on --to.
Several --from slots are selected first and placed as a batch starting at
--to, wrapping into the following boxes.

  --clone      keep the sources (Shift at drop)
  --overwrite  replace occupied destinations (Alt at drop)
  --swap       mark a single-record exchange as a swap (Control at drop)
  --encrypt    carry the encrypted transport form (Control at drag start)

Example:
  slotshift move --from 0:0 --to 1:5
  slotshift move --from 0:0 --from 0:1 --from 0:2 --to 2:28 --overwrite
  slotshift move --from 0:3 --to-viewer party --to 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(moveFrom) == 0 || moveTo == "" {
			exitUsage("move", "--from and --to are required")
		}
		eng, err := openEngine()
		if err != nil {
			exitWith("move", err)
		}
		defer eng.Close()

		toViewer := moveToViewer
		if toViewer == "" {
			toViewer = moveViewer
		}
		dest, err := eng.slot(toViewer, moveTo)
		if err != nil {
			eng.exitWith("move", err)
		}
		sources := make([]types.Slot, 0, len(moveFrom))
		for _, addr := range moveFrom {
			src, err := eng.slot(moveViewer, addr)
			if err != nil {
				eng.exitWith("move", err)
			}
			if src.IsEmpty() {
				eng.exitUsage("move", "%s is empty", src)
			}
			sources = append(sources, src)
		}

		target := &transport.SlotTarget{Handler: eng.orch, Slot: dest, Mods: dropMods(moveClone, moveOverwrite, moveSwap)}
		if err := drag(eng, sources, target, moveEncrypt); err != nil {
			eng.exitWith("move", err)
		}
		if err := target.Err(); err != nil {
			eng.exitWith("move", err)
		}
		if len(eng.host.alerts) == 0 {
			fmt.Printf("moved %d record(s) to %s\n", len(sources), dest)
		}
		return nil
	},
}

// dropMods maps placement flags onto the modifiers held at drop time.
func dropMods(clone, overwrite, swap bool) types.Modifiers {
	var m types.Modifiers
	if clone {
		m |= types.ModShift
	}
	if overwrite {
		m |= types.ModAlt
	}
	if swap {
		m |= types.ModControl
	}
	return m
}

// drag replays the pointer gesture of a drag: Control-click every source of
// a batch, press on the first, and move past the drag threshold. The aimed
// target receives the payload from inside the move.
func drag(eng *engine, sources []types.Slot, target transport.Target, encrypt bool) error {
	if len(sources) > 1 {
		for i := range sources {
			eng.orch.Click(types.PointerEvent{Slot: &sources[i], Button: types.ButtonPrimary, Mods: types.ModControl})
		}
	}
	press := sources[0]
	eng.loop.Aim(target)
	eng.orch.PointerDown(types.PointerEvent{Slot: &press, Button: types.ButtonPrimary})

	var mods types.Modifiers
	if encrypt {
		mods = types.ModControl
	}
	err := eng.orch.PointerMove(types.PointerEvent{
		Slot:     &press,
		Button:   types.ButtonPrimary,
		Mods:     mods,
		Position: types.Point{X: eng.cfg.DragThreshold},
	})
	eng.orch.PointerUp(types.PointerEvent{Slot: &press, Button: types.ButtonPrimary})
	return err
}

func init() {
	moveCmd.Flags().StringVar(&moveViewer, "viewer", boxesViewer, "viewer holding the sources")
	moveCmd.Flags().StringVar(&moveToViewer, "to-viewer", "", "viewer holding the destination (default: --viewer)")
	moveCmd.Flags().StringArrayVar(&moveFrom, "from", nil, "source slot; repeat for a batch")
	moveCmd.Flags().StringVar(&moveTo, "to", "", "destination slot")
	moveCmd.Flags().BoolVar(&moveClone, "clone", false, "keep the sources")
	moveCmd.Flags().BoolVar(&moveOverwrite, "overwrite", false, "replace occupied destinations")
	moveCmd.Flags().BoolVar(&moveSwap, "swap", false, "record the exchange as a swap")
	moveCmd.Flags().BoolVar(&moveEncrypt, "encrypt", false, "drag the encrypted form")
}
