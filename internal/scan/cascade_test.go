package scan

import (
	"context"
	"fmt"
	"image"
	"testing"
)

// fakeDecoder succeeds on the n-th call (1-indexed), recording every attempt.
type fakeDecoder struct {
	succeedOn int
	result    string
	available bool
	calls     []image.Rectangle
}

func (f *fakeDecoder) Available() bool { return f.available }

func (f *fakeDecoder) Decode(img image.Image) (string, bool) {
	f.calls = append(f.calls, img.Bounds())
	if len(f.calls) == f.succeedOn {
		return f.result, true
	}
	return "", false
}

type fakeVision struct {
	text  string
	err   error
	calls int
}

func (f *fakeVision) ReadDigits(ctx context.Context, img image.Image) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestCascadeShortCircuit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 60))

	// Succeed on the crop-binary variant, the 5th in the waterfall. The
	// rotated variants must never be attempted.
	dec := &fakeDecoder{succeedOn: 5, result: "9784798132646", available: true}
	vision := &fakeVision{}

	isbn, _, ok := NewCascade(dec).Decode(context.Background(), src, vision)
	if !ok || isbn != "9784798132646" {
		t.Fatalf("Expected success with 9784798132646, got %q ok=%v", isbn, ok)
	}
	if len(dec.calls) != 5 {
		t.Errorf("Expected exactly 5 decode attempts, got %d", len(dec.calls))
	}
	// The 5th attempt is the center crop at half dimensions.
	last := dec.calls[4]
	if last.Dx() != 50 || last.Dy() != 30 {
		t.Errorf("Expected 50x30 crop variant, got %dx%d", last.Dx(), last.Dy())
	}
	if vision.calls != 0 {
		t.Errorf("Expected no vision call after symbol decode, got %d", vision.calls)
	}
}

func TestCascadeVisionFallback(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))

	tests := []struct {
		name   string
		vision *fakeVision
		want   string
		wantOK bool
	}{
		{
			name:   "bookland substring in noisy output",
			vision: &fakeVision{text: "The barcode reads 9784798132646 I believe."},
			want:   "9784798132646",
			wantOK: true,
		},
		{
			name:   "digits interleaved with separators",
			vision: &fakeVision{text: "978-4798-13264-6"},
			want:   "9784798132646",
			wantOK: true,
		},
		{
			name:   "no usable digits",
			vision: &fakeVision{text: "I cannot read this image."},
			wantOK: false,
		},
		{
			name:   "wrong prefix rejected",
			vision: &fakeVision{text: "1234567890123"},
			wantOK: false,
		},
		{
			name:   "vision error swallowed",
			vision: &fakeVision{err: fmt.Errorf("quota exceeded")},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := &fakeDecoder{succeedOn: 0, available: true}
			isbn, diags, ok := NewCascade(dec).Decode(context.Background(), src, tt.vision)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got ok=%v (diags: %v)", tt.wantOK, ok, diags)
			}
			if ok && isbn != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, isbn)
			}
			if tt.vision.calls != 1 {
				t.Errorf("Expected exactly one vision call, got %d", tt.vision.calls)
			}
			if !ok && len(diags) == 0 {
				t.Error("Expected diagnostics on failure")
			}
		})
	}
}

func TestCascadeNoVisionConfigured(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	dec := &fakeDecoder{succeedOn: 0, available: true}

	isbn, _, ok := NewCascade(dec).Decode(context.Background(), src, nil)
	if ok {
		t.Errorf("Expected failure, got %q", isbn)
	}
	// All seven variants were still tried.
	if len(dec.calls) != 7 {
		t.Errorf("Expected 7 decode attempts, got %d", len(dec.calls))
	}
}

func TestCascadeDecoderUnavailable(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	dec := &fakeDecoder{available: false}

	_, diags, ok := NewCascade(dec).Decode(context.Background(), src, nil)
	if ok {
		t.Error("Expected failure when decoding is unavailable and no vision is configured")
	}
	if len(dec.calls) != 0 {
		t.Errorf("Expected no decode attempts, got %d", len(dec.calls))
	}
	if len(diags) == 0 {
		t.Error("Expected a diagnostic about unavailability")
	}
}

func TestExtractISBN(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"9784798132646", "9784798132646", true},
		{"prefix 9784798132646 suffix", "9784798132646", true},
		{"97847981326", "", false},
		{"9994798132646", "", false},
		{"", "", false},
		// Extra digits around a bookland run still match the run.
		{"00097847981326460", "9784798132646", true},
	}

	for _, tt := range tests {
		got, ok := ExtractISBN(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractISBN(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}
