package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dokushodb/booklog/internal/search"
)

func newSearchCmd() *cobra.Command {
	var country string
	var language string
	var start int

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search for books by title",
		Long: `Searches Google Books for a title and prints the ranked candidates
as JSON. Multi-word queries also try title/author pairings of the first
two words, so "ゼロ 瀧本" finds the book whether the second word is part
of the title or the author's name.`,
		Example: `  booklog search ゼロ・トゥ・ワン`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := search.NewEngine(country, language)
			candidates, diags := engine.Search(cmd.Context(), strings.Join(args, " "), start)
			for _, d := range diags {
				fmt.Fprintln(os.Stderr, d)
			}
			return json.NewEncoder(os.Stdout).Encode(candidates)
		},
	}

	cmd.Flags().StringVar(&country, "country", "JP", "Country code for the volumes API")
	cmd.Flags().StringVar(&language, "language", "ja", "Language restriction for results")
	cmd.Flags().IntVar(&start, "start", 0, "Result page offset")

	return cmd
}
