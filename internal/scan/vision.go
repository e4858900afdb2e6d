package scan

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultVisionModel is used when no model is configured.
const DefaultVisionModel = "gemini-1.5-flash"

const visionPrompt = `Read the EAN-13 barcode (ISBN) from this image.
Output ONLY the 13-digit number starting with 978.
If unreadable, output NOTHING.`

var booklandPattern = regexp.MustCompile(`978\d{10}`)

// VisionReader reads barcode digits from an image using a vision-capable
// language model.
type VisionReader interface {
	ReadDigits(ctx context.Context, img image.Image) (string, error)
}

// GeminiReader is the Gemini-backed VisionReader.
type GeminiReader struct {
	apiKey string
	model  string
}

// NewGeminiReader returns a reader bound to one API credential. Model may be
// empty to use the default.
func NewGeminiReader(apiKey, model string) *GeminiReader {
	if model == "" {
		model = DefaultVisionModel
	}
	return &GeminiReader{apiKey: apiKey, model: model}
}

func (g *GeminiReader) ReadDigits(ctx context.Context, img image.Image) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx,
		genai.ImageData("jpeg", buf.Bytes()),
		genai.Text(visionPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return string(txt), nil
}

// ExtractISBN pulls a plausible ISBN out of free model output. Digits are
// collected first; a "978" bookland substring followed by ten more digits
// wins, otherwise an exactly-13-digit stream starting with 978 is accepted.
func ExtractISBN(text string) (string, bool) {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if m := booklandPattern.FindString(digits); m != "" {
		return m, true
	}
	if len(digits) == 13 && strings.HasPrefix(digits, "978") {
		return digits, true
	}
	return "", false
}
