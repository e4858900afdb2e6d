package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleBooksBaseURL = "https://www.googleapis.com/books/v1"

// GoogleBooksSource looks up an ISBN against the Google Books volumes API.
type GoogleBooksSource struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewGoogleBooksSource() *GoogleBooksSource {
	return &GoogleBooksSource{
		BaseURL: googleBooksBaseURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (s *GoogleBooksSource) Name() string { return "googlebooks" }

// volumesResponse covers the fields we read from the volumes API.
type volumesResponse struct {
	Items []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

func (s *GoogleBooksSource) Lookup(ctx context.Context, isbn string) (*Record, error) {
	reqURL := fmt.Sprintf("%s/volumes?q=%s", s.BaseURL, url.QueryEscape("isbn:"+isbn))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Google Books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google Books API returned status %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Google Books response: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, nil
	}

	info := result.Items[0].VolumeInfo
	return &Record{
		Title:    info.Title,
		Author:   strings.Join(info.Authors, ", "),
		Notes:    info.Description,
		CoverURL: info.ImageLinks.Thumbnail,
		ISBN:     isbn,
	}, nil
}
