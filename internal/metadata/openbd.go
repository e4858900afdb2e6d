package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const openBDBaseURL = "https://api.openbd.jp/v1"

// OpenBDSource looks up an ISBN against the openBD bibliographic API, which
// carries strong Japanese-market metadata.
type OpenBDSource struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewOpenBDSource() *OpenBDSource {
	return &OpenBDSource{
		BaseURL: openBDBaseURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (s *OpenBDSource) Name() string { return "openbd" }

// openBDEntry mirrors the top-level payload entry. The onix block is deeply
// nested and frequently incomplete; every field is optional.
type openBDEntry struct {
	Summary struct {
		Title  string `json:"title"`
		Author string `json:"author"`
		Cover  string `json:"cover"`
	} `json:"summary"`
	Onix struct {
		CollateralDetail struct {
			TextContent []struct {
				Text string `json:"Text"`
			} `json:"TextContent"`
		} `json:"CollateralDetail"`
	} `json:"onix"`
}

func (s *OpenBDSource) Lookup(ctx context.Context, isbn string) (*Record, error) {
	reqURL := fmt.Sprintf("%s/get?isbn=%s", s.BaseURL, url.QueryEscape(isbn))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query openBD: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openBD API returned status %d", resp.StatusCode)
	}

	// openBD returns a list with a null entry for unknown ISBNs.
	var entries []*openBDEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode openBD response: %w", err)
	}

	if len(entries) == 0 || entries[0] == nil {
		return nil, nil
	}

	entry := entries[0]
	notes := ""
	if tc := entry.Onix.CollateralDetail.TextContent; len(tc) > 0 {
		notes = tc[0].Text
	}

	return &Record{
		Title:    entry.Summary.Title,
		Author:   entry.Summary.Author,
		Notes:    notes,
		CoverURL: entry.Summary.Cover,
		ISBN:     isbn,
	}, nil
}
