// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the outreach-engine pipeline.
package types

import "strings"

// Author is one credited author on a work: display name, the stable
// identifier assigned by the corpus index, and the first listed affiliation.
type Author struct {
	// Name is the author's display name.
	Name string `json:"name" yaml:"name"`

	// ID is the source-assigned author identifier (e.g. an OpenAlex author URL).
	ID string `json:"id" yaml:"id"`

	// Affiliation is the first institution listed for this authorship.
	Affiliation string `json:"affiliation" yaml:"affiliation"`
}

// WorkRecord is one indexed research publication as assembled by the corpus
// fetcher. Scalar fields are never empty: a missing source value is replaced
// by its sentinel at fetch time. Generated email content is attached under
// Emails during orchestration; everything else is immutable after fetch.
type WorkRecord struct {
	// ID is the source-assigned work identifier, unique within a dataset.
	ID string `json:"id" yaml:"id"`

	// Title is the work title, or its sentinel when the source omits it.
	Title string `json:"title" yaml:"title"`

	// Journal is the display name of the publication venue.
	Journal string `json:"journal" yaml:"journal"`

	// PublicationYear is the year of publication, 0 when unknown.
	PublicationYear int `json:"publication_year" yaml:"publication_year"`

	// PublicationDate is the full publication date (YYYY-MM-DD), possibly empty.
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// Abstract is the reconstructed abstract text, or its sentinel when
	// neither the listing nor the backfill lookup supplied one.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the credited authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Emails maps each generated variant slot to its post-processed body.
	Emails map[VariantKind]string `json:"emails,omitempty" yaml:"emails,omitempty"`
}

// AuthorNames returns the comma-joined author display names.
func (w *WorkRecord) AuthorNames() string {
	names := make([]string, len(w.Authors))
	for i, a := range w.Authors {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// AuthorIDs returns the comma-joined author identifiers.
func (w *WorkRecord) AuthorIDs() string {
	ids := make([]string, len(w.Authors))
	for i, a := range w.Authors {
		ids[i] = a.ID
	}
	return strings.Join(ids, ", ")
}

// SetEmail attaches a generated variant body to the record.
func (w *WorkRecord) SetEmail(kind VariantKind, body string) {
	if w.Emails == nil {
		w.Emails = make(map[VariantKind]string)
	}
	w.Emails[kind] = body
}

// ResearchContext is the structured distillation of a work's abstract used to
// personalize generated text. Exactly one context exists per work; when
// extraction fails the fixed default below is used instead.
type ResearchContext struct {
	// ResearchArea is the broad field of the work (e.g. "neurodegeneration").
	ResearchArea string `json:"research_area" yaml:"research_area"`

	// KeyFinding is the single most important result of the work.
	KeyFinding string `json:"key_finding" yaml:"key_finding"`

	// Methodology is the primary method or study design.
	Methodology string `json:"methodology" yaml:"methodology"`

	// PotentialApplication is a plausible downstream use of the finding.
	PotentialApplication string `json:"potential_application" yaml:"potential_application"`

	// SuggestedFeature names the platform feature most relevant to the work.
	SuggestedFeature string `json:"suggested_feature" yaml:"suggested_feature"`
}

// DefaultResearchContext is the fixed fallback used whenever extraction
// fails. Calling it repeatedly under the same failure yields the same value.
func DefaultResearchContext() ResearchContext {
	return ResearchContext{
		ResearchArea:         "biomedical research",
		KeyFinding:           "your recent findings",
		Methodology:          "your methodology",
		PotentialApplication: "advancing research in your field",
		SuggestedFeature:     "search",
	}
}

// AuthorRow is one exported row: the work's scalar fields crossed with a
// single author and every generated email variant. Email content is
// duplicated identically across all rows derived from the same work.
type AuthorRow struct {
	WorkID          string
	Title           string
	Journal         string
	PublicationYear int
	PublicationDate string
	Abstract        string
	Author          string
	AuthorID        string
	Affiliation     string
	Emails          map[VariantKind]string
}
