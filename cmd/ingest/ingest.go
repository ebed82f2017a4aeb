// Package ingest implements the ingest command.
package ingest

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/product-ingestor/internal/bootstrap"
	"github.com/spf13/cobra"
)

// Command returns the ingest command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [archive.zip]",
		Short: "Ingest a ZIP archive of XML product catalogs",
		Long: `Ingest streams every .xml entry of the archive (default ./xml.zip), builds one
record per <product> element and indexes it into Elasticsearch. Malformed
documents and rejected records are logged and counted; the run continues.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          Run,
	}
}

// Run executes an ingestion and prints its summary.
func Run(cmd *cobra.Command, args []string) error {
	overrides, err := overridesFromFlags(cmd, args)
	if err != nil {
		return err
	}

	summary, runErr := bootstrap.Run(cmd.Context(), overrides)
	if summary != nil {
		RenderSummary(cmd.OutOrStdout(), *summary)
	}
	return runErr
}

func overridesFromFlags(cmd *cobra.Command, args []string) (bootstrap.Overrides, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return bootstrap.Overrides{}, fmt.Errorf("read --config: %w", err)
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return bootstrap.Overrides{}, fmt.Errorf("read --debug: %w", err)
	}

	o := bootstrap.Overrides{ConfigPath: configPath, Debug: debug}
	if len(args) > 0 {
		o.ArchivePath = args[0]
	}
	return o, nil
}
