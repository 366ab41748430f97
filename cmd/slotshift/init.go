package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slotshift/internal/entity"
	"github.com/mesh-intelligence/slotshift/pkg/sqlite"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// Names of the viewers created by init.
const (
	boxesViewer = "boxes"
	partyViewer = "party"
)

var (
	initContainers int
	initSlots      int
	initPartySize  int
	initFormat     string
	initLock       string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize slotshift storage with boxes and a party",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			exitWith("init", err)
		}

		store, cfg, err := openStore()
		if err != nil {
			exitWith("init", err)
		}
		defer store.Detach()

		specs := []sqlite.ViewerSpec{
			{Name: boxesViewer, Kind: types.AddressBox, SlotsPerContainer: initSlots, ContainerCount: initContainers, RecordFormat: initFormat, VariantLock: initLock},
			{Name: partyViewer, Kind: types.AddressParty, SlotsPerContainer: initPartySize, RecordFormat: initFormat, VariantLock: initLock},
		}
		for _, spec := range specs {
			if _, err := store.CreateViewer(spec); err != nil && !errors.Is(err, types.ErrViewerExists) {
				exitWith("init", err)
			}
		}
		if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
			exitWith("init", err)
		}

		fmt.Println("slotshift initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", cfg.DataDir)
		fmt.Println("  temp:  ", cfg.TempDir)
		return nil
	},
}

func init() {
	initCmd.Flags().IntVar(&initContainers, "containers", 8, "number of boxes")
	initCmd.Flags().IntVar(&initSlots, "slots", 30, "slots per box")
	initCmd.Flags().IntVar(&initPartySize, "party-size", 6, "party capacity")
	initCmd.Flags().StringVar(&initFormat, "format", entity.DefaultFormat, "record format of the storage")
	initCmd.Flags().StringVar(&initLock, "variant-lock", "", "restrict imports to one language variant (ja or intl)")
}
