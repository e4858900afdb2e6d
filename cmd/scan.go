package cmd

import (
	"encoding/json"
	"fmt"
	"image"
	"os"

	// Register the image formats a phone camera or scanner produces.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spf13/cobra"

	"github.com/dokushodb/booklog/internal/metadata"
	"github.com/dokushodb/booklog/internal/scan"
)

func newScanCmd() *cobra.Command {
	var model string
	var noVision bool

	cmd := &cobra.Command{
		Use:   "scan [image file]",
		Short: "Decode an ISBN barcode photo and resolve its metadata",
		Long: `Decodes the EAN-13 barcode in a book photo and prints the resolved
metadata as JSON.

The decoder tries a fixed sequence of preprocessed image variants. When
none decode and a GEMINI_API_KEY is set, the photo is sent to Gemini
vision as a last resort (disable with --no-vision).`,
		Example: `  booklog scan back-cover.jpg`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer f.Close()

			img, _, err := image.Decode(f)
			if err != nil {
				return fmt.Errorf("failed to decode image: %w", err)
			}

			var vision scan.VisionReader
			if key := os.Getenv("GEMINI_API_KEY"); key != "" && !noVision {
				vision = scan.NewGeminiReader(key, model)
			}

			cascade := scan.NewCascade(scan.NewEAN13Decoder())
			code, diags, ok := cascade.Decode(cmd.Context(), img, vision)
			if !ok {
				for _, d := range diags {
					fmt.Fprintln(os.Stderr, d)
				}
				return fmt.Errorf("no ISBN barcode found in %s", args[0])
			}

			record := metadata.NewResolver().Resolve(cmd.Context(), code)
			return json.NewEncoder(os.Stdout).Encode(record)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", scan.DefaultVisionModel, "Gemini model for the vision fallback")
	cmd.Flags().BoolVar(&noVision, "no-vision", false, "Disable the Gemini vision fallback")

	return cmd
}
