package metadata

import (
	"context"
	"log/slog"

	"github.com/dokushodb/booklog/internal/isbn"
)

// Resolver merges the lookup sources into one best-effort record. The
// structured catalog (Google Books) is the base; the regional source
// (openBD) fills gaps; the image CDN convention guarantees a cover URL for
// any well-formed ISBN.
type Resolver struct {
	Catalog  Source
	Regional Source
}

func NewResolver() *Resolver {
	return &Resolver{
		Catalog:  NewGoogleBooksSource(),
		Regional: NewOpenBDSource(),
	}
}

// Resolve never fails: source errors degrade to a partial or empty record.
// Notes are always cleared in the registration flow, a recorded product
// decision rather than a data-quality filter.
func (r *Resolver) Resolve(ctx context.Context, rawISBN string) Record {
	id := isbn.Normalize(rawISBN)
	record := Record{ISBN: id}

	if base := r.lookup(ctx, r.Catalog, id); base != nil {
		record = *base
	}

	if regional := r.lookup(ctx, r.Regional, id); regional != nil {
		if record.Title == "" {
			record = *regional
		} else if record.CoverURL == "" && regional.CoverURL != "" {
			record.CoverURL = regional.CoverURL
		}
	}

	if record.CoverURL == "" {
		record.CoverURL = isbn.CoverURL(id)
	}

	record.Notes = ""
	record.ISBN = id
	return record
}

// BestCoverURL re-resolves only the cover image for an already-registered
// book: catalog source first, then regional, then the CDN convention.
func (r *Resolver) BestCoverURL(ctx context.Context, rawISBN string) string {
	id := isbn.Normalize(rawISBN)

	if rec := r.lookup(ctx, r.Catalog, id); rec != nil && rec.CoverURL != "" {
		return rec.CoverURL
	}
	if rec := r.lookup(ctx, r.Regional, id); rec != nil && rec.CoverURL != "" {
		return rec.CoverURL
	}
	return isbn.CoverURL(id)
}

func (r *Resolver) lookup(ctx context.Context, src Source, id string) *Record {
	if src == nil {
		return nil
	}
	rec, err := src.Lookup(ctx, id)
	if err != nil {
		slog.Warn("Metadata lookup failed", "source", src.Name(), "isbn", id, "err", err)
		return nil
	}
	return rec
}
