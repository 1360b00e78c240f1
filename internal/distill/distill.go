// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package distill reduces a work's title and abstract into the structured
// research context used to personalize generated emails.
package distill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/pdiddy/outreach-engine/internal/llm"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// extractionPersona constrains the model to structured output only.
const extractionPersona = "You are a research analysis system. You reply with a single JSON object and nothing else."

// extractionPromptTmpl instructs the model to return the fixed-shape context
// object. Field names are enumerated; the reply is decoded strictly against
// that set.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Analyze the following research paper title and abstract.

Respond with a JSON object containing exactly these fields, each a short string:
- research_area: the broad field of the work
- key_finding: the single most important result
- methodology: the primary method or study design
- potential_application: a plausible downstream use of the finding
- suggested_feature: which platform feature fits this work best, one of "search", "analytics", "knowledge-graph", "portal"

Do not include any text outside the JSON object.

Example response:
{"research_area": "neurodegeneration", "key_finding": "Tau aggregation precedes symptom onset by a decade.", "methodology": "longitudinal cohort imaging study", "potential_application": "earlier diagnostic screening", "suggested_feature": "analytics"}

Title:
{{.Title}}

Abstract:
{{.Abstract}}
`))

// Extractor derives a ResearchContext per work record. The language-model
// client is injected at construction.
type Extractor struct {
	client llm.Client
	log    zerolog.Logger
	opts   llm.Options
}

// NewExtractor creates an Extractor.
func NewExtractor(client llm.Client, log zerolog.Logger, opts llm.Options) *Extractor {
	return &Extractor{client: client, log: log, opts: opts}
}

// Extract asks the model for the structured context of one abstract. It is
// total: any call failure, empty reply, or malformed reply yields the fixed
// default context. No retry is performed; a single failure trades fidelity
// for forward progress of the batch.
func (e *Extractor) Extract(ctx context.Context, title, abstract string) types.ResearchContext {
	prompt, err := renderPrompt(title, abstract)
	if err != nil {
		e.log.Warn().Err(err).Msg("rendering extraction prompt failed")
		return types.DefaultResearchContext()
	}

	reply, err := e.client.Complete(ctx, extractionPersona, prompt, e.opts)
	if err != nil {
		e.log.Warn().Err(err).Msg("context extraction call failed")
		return types.DefaultResearchContext()
	}

	rc, err := decodeContext(reply)
	if err != nil {
		e.log.Warn().Err(err).Msg("context extraction reply malformed")
		return types.DefaultResearchContext()
	}
	return rc
}

// decodeContext strictly decodes the model reply into a ResearchContext.
// Unknown fields, trailing content, and empty objects are all decode errors.
func decodeContext(reply string) (types.ResearchContext, error) {
	var wire struct {
		ResearchArea         string `json:"research_area"`
		KeyFinding           string `json:"key_finding"`
		Methodology          string `json:"methodology"`
		PotentialApplication string `json:"potential_application"`
		SuggestedFeature     string `json:"suggested_feature"`
	}

	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(reply)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return types.ResearchContext{}, err
	}
	if dec.More() {
		return types.ResearchContext{}, fmt.Errorf("trailing content after JSON object")
	}

	rc := types.ResearchContext{
		ResearchArea:         wire.ResearchArea,
		KeyFinding:           wire.KeyFinding,
		Methodology:          wire.Methodology,
		PotentialApplication: wire.PotentialApplication,
		SuggestedFeature:     wire.SuggestedFeature,
	}
	if rc == (types.ResearchContext{}) {
		return types.ResearchContext{}, fmt.Errorf("reply contained none of the expected fields")
	}
	return rc, nil
}

// renderPrompt executes the extraction prompt template.
func renderPrompt(title, abstract string) (string, error) {
	var buf bytes.Buffer
	err := extractionPromptTmpl.Execute(&buf, struct{ Title, Abstract string }{Title: title, Abstract: abstract})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
