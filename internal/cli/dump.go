package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/cdmload/internal/logging"
	"github.com/vvka-141/cdmload/internal/services"
	"github.com/vvka-141/cdmload/internal/store"
	"github.com/vvka-141/cdmload/internal/ui"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every row of the projects table",
	Long: `Dump opens an existing store and prints the projects table in insertion order.

Output is a styled table on an interactive terminal, and one tuple per line
otherwise (pipes, CI, NO_COLOR or CDMLOAD_NON_INTERACTIVE=1).

Examples:
  cdmload dump
  cdmload dump -d /data/cdm.db > projects.txt
  cdmload dump --connection postgresql://ingest@db/warehouse`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

type dumpFlagValues struct {
	store storeFlags
}

var dumpFlags dumpFlagValues

func init() {
	rootCmd.AddCommand(dumpCmd)
	addStoreFlags(dumpCmd, &dumpFlags.store)
}

func buildDumpConfig(verbose bool) (cdm.StoreConfig, error) {
	_ = godotenv.Load()

	fileCfg, err := loadFileConfig(dumpFlags.store.configPath)
	if err != nil {
		return cdm.StoreConfig{}, err
	}
	return resolveStoreConfig(&dumpFlags.store, fileCfg, verbose)
}

func runDump(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	storeCfg, err := buildDumpConfig(verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	dumper := services.NewIngestService(store.Open, ui.NewPrinter(), logger)

	ctx, cancel := withSignals(cdm.DefaultTimeout)
	defer cancel()

	projects, err := dumper.Dump(ctx, storeCfg)
	if err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}
	logger.Verbose("%d project(s)", len(projects))
	return nil
}
