package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// OptionalCSVPath accepts zero or one csv_path argument.
func OptionalCSVPath(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf(`accepts at most 1 arg(s), received %d: %w

Usage: %s

Example:
  %s "CDM Activities.csv" -d cdm_database.db`, len(args), cdm.ErrUsage, cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}
