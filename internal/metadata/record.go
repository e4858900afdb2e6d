// Package metadata resolves bibliographic metadata for an ISBN by merging
// multiple lookup sources with priority and gap-filling rules.
package metadata

import "context"

// Record is the best-effort metadata for one book edition. It is produced
// transiently per lookup; persistence belongs to the catalog.
type Record struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Notes    string `json:"notes"`
	CoverURL string `json:"cover_url"`
	ISBN     string `json:"isbn"`
}

// Source is a single bibliographic lookup service.
//
// Lookup returns (nil, nil) when the ISBN is simply not known to the source,
// and a non-nil error for actual failures (network, malformed response).
// Callers that only care about "did we get a record" may treat both the same.
type Source interface {
	Name() string
	Lookup(ctx context.Context, isbn string) (*Record, error)
}
