package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var swapViewer string

var swapBoxesCmd = &cobra.Command{
	Use:   "swap-boxes <a> <b>",
	Short: "Exchange the contents of two boxes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, errA := strconv.Atoi(args[0])
		b, errB := strconv.Atoi(args[1])
		if errA != nil || errB != nil {
			exitUsage("swap-boxes", "box numbers must be integers")
		}

		eng, err := openEngine()
		if err != nil {
			exitWith("swap-boxes", err)
		}
		defer eng.Close()

		v, err := eng.store.Viewer(swapViewer)
		if err != nil {
			eng.exitWith("swap-boxes", err)
		}
		if err := eng.orch.SwapContainers(v, a, b); err != nil {
			eng.exitWith("swap-boxes", err)
		}
		fmt.Printf("swapped boxes %d and %d\n", a, b)
		return nil
	},
}

func init() {
	swapBoxesCmd.Flags().StringVar(&swapViewer, "viewer", boxesViewer, "viewer holding the boxes")
}
