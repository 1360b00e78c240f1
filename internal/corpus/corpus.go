// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus assembles a fixed-size, deduplicated dataset of work
// records from the scholarly-works index, backfilling missing abstracts.
package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Sentinel values substituted for missing source fields. Every scalar field
// on a fetched WorkRecord holds either a real value or its sentinel.
const (
	SentinelTitle       = "No Title available"
	SentinelJournal     = "No Journal available"
	SentinelAbstract    = "No Abstract available"
	SentinelAffiliation = "No Affiliation available"
)

// Fetcher pages through the filtered works listing until the target count is
// reached or the source is exhausted. The HTTP client is injected at
// construction; the fetcher holds no process-wide state.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
	cfg     types.FetchConfig
}

// NewFetcher creates a Fetcher. Zero config values fall back to defaults:
// 25 results per page, 5 requests per second.
func NewFetcher(client *http.Client, log zerolog.Logger, cfg types.FetchConfig) *Fetcher {
	if cfg.PerPage <= 0 {
		cfg.PerPage = 25
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		log:     log,
		cfg:     cfg,
	}
}

// Fetch collects up to targetCount deduplicated work records. Each page
// either grows the result set or comes back empty, which forces exit, so the
// loop always terminates. Per-record failures are logged and skipped; only
// transport-level failures abort the fetch.
func (f *Fetcher) Fetch(ctx context.Context, targetCount int, w io.Writer) ([]types.WorkRecord, error) {
	if f.cfg.Filter == "" {
		return nil, fmt.Errorf("empty filter query")
	}
	if targetCount <= 0 {
		return nil, fmt.Errorf("target count must be positive, got %d", targetCount)
	}

	seen := make(map[string]bool)
	var records []types.WorkRecord

	for page := 1; len(records) < targetCount; page++ {
		works, err := f.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}
		if len(works) == 0 {
			break
		}

		for _, work := range works {
			if len(records) >= targetCount {
				break
			}

			rec, err := f.buildRecord(ctx, work)
			if err != nil {
				f.log.Warn().Err(err).Str("work", work.ID).Msg("skipping work record")
				fmt.Fprintf(w, "warning: skipping work %s: %v\n", work.ID, err)
				continue
			}
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			records = append(records, rec)

			fmt.Fprintf(w, "fetched %s (%d/%d)\n", rec.ID, len(records), targetCount)
		}
	}

	return records, nil
}

// buildRecord converts one listing item into a WorkRecord, substituting
// sentinels for missing scalar fields and backfilling the abstract when the
// listing omits it.
func (f *Fetcher) buildRecord(ctx context.Context, work openAlexWork) (types.WorkRecord, error) {
	if work.ID == "" {
		return types.WorkRecord{}, fmt.Errorf("work has no identifier")
	}

	rec := types.WorkRecord{
		ID:              work.ID,
		Title:           work.Title,
		Journal:         work.PrimaryLocation.Source.DisplayName,
		PublicationYear: work.PublicationYear,
		PublicationDate: work.PublicationDate,
		Abstract:        reconstructAbstract(work.AbstractInvertedIndex),
	}
	if rec.Title == "" {
		rec.Title = SentinelTitle
	}
	if rec.Journal == "" {
		rec.Journal = SentinelJournal
	}

	for _, authorship := range work.Authorships {
		if authorship.Author.DisplayName == "" {
			continue
		}
		affiliation := SentinelAffiliation
		if len(authorship.Institutions) > 0 && authorship.Institutions[0].DisplayName != "" {
			affiliation = authorship.Institutions[0].DisplayName
		}
		rec.Authors = append(rec.Authors, types.Author{
			Name:        authorship.Author.DisplayName,
			ID:          authorship.Author.ID,
			Affiliation: affiliation,
		})
	}

	if rec.Abstract == "" {
		rec.Abstract = f.backfillAbstract(ctx, work.ID)
	}

	return rec, nil
}

// backfillAbstract looks the work up individually to recover its abstract.
// Any failure yields the abstract sentinel; backfill is never fatal.
func (f *Fetcher) backfillAbstract(ctx context.Context, workID string) string {
	work, err := f.fetchWork(ctx, workID)
	if err != nil {
		f.log.Warn().Err(err).Str("work", workID).Msg("abstract backfill failed")
		return SentinelAbstract
	}
	if abstract := reconstructAbstract(work.AbstractInvertedIndex); abstract != "" {
		return abstract
	}
	return SentinelAbstract
}
