// Package search queries a bibliographic API with several query permutations
// and produces a relevance-ordered candidate list.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/dokushodb/booklog/internal/isbn"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// minYear is a hard recency/quality cutoff: the search surface is for books a
// user might actually register, not digitized archive noise.
const minYear = 1960

// Candidate is one ranked search result, held only for the duration of a
// resolution session.
type Candidate struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher string  `json:"publisher"`
	Year      int     `json:"year"`
	CoverURL  string  `json:"cover_url"`
	ISBN      string  `json:"isbn"`
	Score     float64 `json:"score"`
}

// Engine issues free-text searches against the Google Books volumes API.
type Engine struct {
	BaseURL    string
	HTTPClient *http.Client
	Country    string
	Language   string
	MaxResults int

	now func() time.Time

	// Single-entry memo keyed on (query, page): repeating the same search
	// must not re-fetch. Overwritten on every distinct key, never evicted.
	mu       sync.Mutex
	memoKey  string
	memoList []Candidate
	memoDiag []string
}

func NewEngine(country, language string) *Engine {
	return &Engine{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		Country:    country,
		Language:   language,
		MaxResults: 20,
		now:        time.Now,
	}
}

// Search returns ranked candidates for a free-text query at the given page
// offset, plus diagnostics for any swallowed source failures.
//
// Two queries always run: one with every token scoped to the title field and
// one unscoped relevance query. On the first page of a multi-token query, two
// extra permutation queries pair the first two tokens as title/author and
// author/title, recovering results typed in unknown order.
func (e *Engine) Search(ctx context.Context, query string, start int) ([]Candidate, []string) {
	query = strings.TrimSpace(query)
	key := fmt.Sprintf("%s|%d", query, start)

	e.mu.Lock()
	if e.memoKey == key {
		list := append([]Candidate(nil), e.memoList...)
		diag := append([]string(nil), e.memoDiag...)
		e.mu.Unlock()
		return list, diag
	}
	e.mu.Unlock()

	tokens := strings.Fields(strings.ToLower(query))

	type request struct {
		q     string
		start int
	}
	requests := []request{
		{q: scopedTitleQuery(tokens), start: start},
		{q: query, start: start},
	}
	if len(tokens) >= 2 && start == 0 {
		// Permutation pages always target offset zero.
		requests = append(requests,
			request{q: fmt.Sprintf("intitle:%s inauthor:%s", tokens[0], tokens[1])},
			request{q: fmt.Sprintf("intitle:%s inauthor:%s", tokens[1], tokens[0])},
		)
	}

	var pool []volumeInfo
	var diags []string
	for _, req := range requests {
		items, err := e.fetch(ctx, req.q, req.start)
		if err != nil {
			diags = append(diags, fmt.Sprintf("query %q: %v", req.q, err))
			continue
		}
		pool = append(pool, items...)
	}

	candidates := e.rank(pool, tokens, query)

	e.mu.Lock()
	e.memoKey = key
	e.memoList = append([]Candidate(nil), candidates...)
	e.memoDiag = append([]string(nil), diags...)
	e.mu.Unlock()

	return candidates, diags
}

func scopedTitleQuery(tokens []string) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts = append(parts, "intitle:"+tok)
	}
	return strings.Join(parts, " ")
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

func (e *Engine) fetch(ctx context.Context, query string, start int) ([]volumeInfo, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("startIndex", strconv.Itoa(start))
	params.Set("maxResults", strconv.Itoa(e.MaxResults))
	params.Set("printType", "books")
	if e.Country != "" {
		params.Set("country", e.Country)
	}
	if e.Language != "" {
		params.Set("langRestrict", e.Language)
	}

	reqURL := e.BaseURL + "/volumes?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query volumes API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("volumes API returned status %d", resp.StatusCode)
	}

	var result struct {
		Items []struct {
			VolumeInfo volumeInfo `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode volumes response: %w", err)
	}

	items := make([]volumeInfo, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, it.VolumeInfo)
	}
	return items, nil
}

// rank filters the merged pool and scores the survivors. The ranking is
// two-tier: items matching every query token are categorically preferred,
// with recency as a secondary signal within each tier.
func (e *Engine) rank(pool []volumeInfo, tokens []string, query string) []Candidate {
	lev := metrics.NewLevenshtein()
	normQuery := normalize(query)
	recentCutoff := e.now().Year() - 5

	seen := map[string]bool{}
	var candidates []Candidate
	for _, item := range pool {
		if item.Title == "" {
			continue
		}
		year := publicationYear(item.PublishedDate)
		if year < minYear {
			continue
		}

		author := strings.Join(item.Authors, ", ")
		haystack := strings.ToLower(item.Title + " " + author)

		matched := 0
		for _, tok := range tokens {
			if strings.Contains(haystack, tok) {
				matched++
			}
		}
		// Relevance floor: a hit found only via unrelated description text
		// never surfaces.
		if len(tokens) > 0 && matched == 0 {
			continue
		}

		dedupeKey := item.Title + "\x00" + author
		if seen[dedupeKey] {
			continue
		}
		seen[dedupeKey] = true

		id := bestIdentifier(item)
		cover := item.ImageLinks.Thumbnail
		if cover == "" && id != "" {
			cover = isbn.CoverURL(id)
		}

		var score float64
		if matched == len(tokens) && len(tokens) > 0 {
			score = 1000
			if year >= recentCutoff {
				score += 1000
			}
		} else {
			score = strutil.Similarity(normQuery, normalize(item.Title), lev) * 500
		}
		score += float64(year) / 100

		candidates = append(candidates, Candidate{
			Title:     item.Title,
			Author:    author,
			Publisher: item.Publisher,
			Year:      year,
			CoverURL:  cover,
			ISBN:      id,
			Score:     score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

func bestIdentifier(item volumeInfo) string {
	var isbn10 string
	for _, id := range item.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	return isbn10
}

// publicationYear parses the leading year of a publishedDate; 0 means unknown.
func publicationYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}
