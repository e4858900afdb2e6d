package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dokushodb/booklog/internal/isbn"
	"github.com/dokushodb/booklog/internal/metadata"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [isbn]",
		Short: "Resolve book metadata for an ISBN",
		Long: `Resolves title, author, and cover metadata for an ISBN and prints
the merged record as JSON. Hyphens and spaces in the ISBN are ignored.`,
		Example: `  booklog lookup 978-4-7981-3264-6`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isbn.Normalize(args[0]) == "" {
				return fmt.Errorf("%q does not look like an ISBN", args[0])
			}

			record := metadata.NewResolver().Resolve(cmd.Context(), args[0])
			return json.NewEncoder(os.Stdout).Encode(record)
		},
	}

	return cmd
}
