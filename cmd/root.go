package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booklog",
		Short: "Personal book catalog with barcode scanning and metadata lookup",
		Long: `Booklog keeps a personal book catalog backed by Parquet files.

Books are registered by scanning an ISBN barcode photo, looking up an ISBN
directly, or searching by title. Metadata is resolved from Google Books and
openBD, with an optional Gemini vision fallback for barcodes the decoder
cannot read.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newSearchCmd())

	return cmd
}
