package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slotshift/internal/paths"
	"github.com/mesh-intelligence/slotshift/pkg/slotshift"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagTempDir   string
	flagJSON      bool
	flagYes       bool
	flagMetrics   bool
)

// fileCfg holds the values loaded from config.yaml. Set by
// PersistentPreRunE so all subcommands can use it.
var fileCfg fileConfig

var rootCmd = &cobra.Command{
	Use:          "slotshift",
	Short:        "slotshift moves records between storage slots",
	Long:         "slotshift stores records in boxes and a party and moves them around\nwith the same drag-and-drop rules a desktop host would apply.",
	Version:      slotshift.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		fileCfg = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.slotshift-db)")
	rootCmd.PersistentFlags().StringVar(&flagTempDir, "temp-dir", "", "directory for transfer temp files (default: $TMPDIR/slotshift)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "answer yes to every prompt")
	rootCmd.PersistentFlags().BoolVar(&flagMetrics, "metrics", false, "print transfer metrics to stderr on exit")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(swapBoxesCmd)
}

// resolveDataDir returns the data directory path:
// --data-dir flag > config.yaml data_dir > SLOTSHIFT_DATA_DIR env > $(CWD)/.slotshift-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, fileCfg.DataDir)
}

// resolveTempDir returns the temp directory path:
// --temp-dir flag > config.yaml temp_dir > SLOTSHIFT_TEMP_DIR env > $TMPDIR/slotshift.
func resolveTempDir() (string, error) {
	return paths.ResolveTempDir(flagTempDir, fileCfg.TempDir)
}

// resolveConfigDir returns the configuration directory:
// --config-dir flag > SLOTSHIFT_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
