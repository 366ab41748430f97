package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lockRelease bool

var lockCmd = &cobra.Command{
	Use:   "lock <viewer> <slot>",
	Short: "Write-protect a slot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			exitWith("lock", err)
		}
		defer store.Detach()

		v, err := store.Viewer(args[0])
		if err != nil {
			exitWith("lock", err)
		}
		addr, err := parseAddress(v, args[1])
		if err != nil {
			exitWith("lock", err)
		}
		if err := store.LockSlot(v.Name(), addr, !lockRelease); err != nil {
			exitWith("lock", err)
		}
		state := "locked"
		if lockRelease {
			state = "unlocked"
		}
		fmt.Printf("%s/%s %s\n", v.Name(), addr, state)
		return nil
	},
}

func init() {
	lockCmd.Flags().BoolVar(&lockRelease, "release", false, "remove the lock instead")
}
