// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives context extraction and email composition across a
// fetched dataset, one record at a time.
package batch

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/outreach-engine/internal/compose"
	"github.com/pdiddy/outreach-engine/internal/distill"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Summary holds the outcome of an orchestration run.
type Summary struct {
	// Composed counts records whose every variant generated normally.
	Composed int

	// Degraded counts records where at least one slot fell back to the
	// error sentinel.
	Degraded int
}

// Total returns the number of records processed.
func (s Summary) Total() int {
	return s.Composed + s.Degraded
}

// HasDegraded reports whether any record carries a sentinel slot.
func (s Summary) HasDegraded() bool {
	return s.Degraded > 0
}

// Orchestrator composes the pipeline stages over a dataset.
type Orchestrator struct {
	extractor *distill.Extractor
	composer  *compose.Composer
	log       zerolog.Logger
}

// New creates an Orchestrator from the injected stage components.
func New(extractor *distill.Extractor, composer *compose.Composer, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{extractor: extractor, composer: composer, log: log}
}

// Run enriches records in place: one ResearchContext per record, shared by
// all of its variants, then every variant slot in dependency order. A failed
// slot degrades to the error sentinel and never halts later records or later
// slots. Progress is reported after each record as a monotonically
// increasing fraction. Cancellation is checked between records only; a
// record in progress runs to completion.
func (o *Orchestrator) Run(ctx context.Context, records []types.WorkRecord, platformInfo string, w io.Writer) (Summary, error) {
	total := len(records)
	var summary Summary

	for i := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		rec := &records[i]
		rctx := o.extractor.Extract(ctx, rec.Title, rec.Abstract)

		degraded := false
		for _, kind := range types.GenerationOrder() {
			var prior string
			if pred := types.Predecessor(kind); pred != "" {
				prior = rec.Emails[pred]
			}

			body, err := o.composer.Compose(ctx, rec, rctx, kind, prior, platformInfo)
			if err != nil {
				o.log.Warn().Err(err).Str("work", rec.ID).Str("variant", string(kind)).Msg("variant degraded")
				fmt.Fprintf(w, "warning: %s %s: %v\n", rec.ID, kind, err)
				body = compose.ErrorSentinel
				degraded = true
			}
			rec.SetEmail(kind, body)
		}

		if degraded {
			summary.Degraded++
		} else {
			summary.Composed++
		}
		fmt.Fprintf(w, "progress %.2f (%d/%d)\n", float64(i+1)/float64(total), i+1, total)
	}

	fmt.Fprintf(w, "\nBatch summary: %d composed, %d degraded (total: %d)\n",
		summary.Composed, summary.Degraded, summary.Total())
	return summary, nil
}
