// Package cmd implements the command-line interface of the product ingestor.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cmdingest "github.com/jonesrussell/north-cloud/product-ingestor/cmd/ingest"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// rootCmd represents the root command. Without a subcommand it ingests.
var rootCmd = &cobra.Command{
	Use:   "product-ingestor [archive.zip]",
	Short: "Index the products of a ZIP of XML catalogs into Elasticsearch",
	Long: `Reads every .xml entry of a ZIP archive, extracts each <product> element,
cleans its fields and indexes it into the "products" Elasticsearch index.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          cmdingest.Run,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the run between records.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is $CONFIG_PATH or ./config.yml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "product-ingestor version %s\n", Version)
		},
	})

	rootCmd.AddCommand(cmdingest.Command())
}
