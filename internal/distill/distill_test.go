// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package distill

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/outreach-engine/internal/llm"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// stubClient returns a canned reply or error and records the prompts it saw.
type stubClient struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubClient) Complete(_ context.Context, _, prompt string, _ llm.Options) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestExtractDecodesWellFormedReply(t *testing.T) {
	stub := &stubClient{reply: `{
		"research_area": "oncology",
		"key_finding": "Tumor growth slows under combined therapy.",
		"methodology": "randomized controlled trial",
		"potential_application": "combination treatment protocols",
		"suggested_feature": "analytics"
	}`}
	e := NewExtractor(stub, zerolog.Nop(), llm.Options{})

	rc := e.Extract(context.Background(), "Combined Therapy Outcomes", "We studied tumor growth...")

	assert.Equal(t, "oncology", rc.ResearchArea)
	assert.Equal(t, "Tumor growth slows under combined therapy.", rc.KeyFinding)
	assert.Equal(t, "randomized controlled trial", rc.Methodology)
	assert.Equal(t, "combination treatment protocols", rc.PotentialApplication)
	assert.Equal(t, "analytics", rc.SuggestedFeature)

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "Combined Therapy Outcomes")
	assert.Contains(t, stub.prompts[0], "We studied tumor growth...")
}

func TestExtractFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		stub *stubClient
	}{
		{
			name: "call failure",
			stub: &stubClient{err: fmt.Errorf("model overloaded")},
		},
		{
			name: "reply is not JSON",
			stub: &stubClient{reply: "Here is my analysis: the work is about oncology."},
		},
		{
			name: "reply has unknown fields",
			stub: &stubClient{reply: `{"research_area": "oncology", "confidence": 0.9}`},
		},
		{
			name: "reply is an empty object",
			stub: &stubClient{reply: `{}`},
		},
		{
			name: "reply is empty string",
			stub: &stubClient{reply: ""},
		},
		{
			name: "reply has prose after the object",
			stub: &stubClient{reply: `{"research_area": "oncology"} Hope that helps!`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.stub, zerolog.Nop(), llm.Options{})
			rc := e.Extract(context.Background(), "Title", "Abstract")
			assert.Equal(t, types.DefaultResearchContext(), rc)
		})
	}
}

func TestExtractToleratesPartialReply(t *testing.T) {
	// A reply with some fields present is kept; only an all-empty reply degrades.
	stub := &stubClient{reply: `{"research_area": "genomics"}`}
	e := NewExtractor(stub, zerolog.Nop(), llm.Options{})

	rc := e.Extract(context.Background(), "Title", "Abstract")
	assert.Equal(t, "genomics", rc.ResearchArea)
	assert.Empty(t, rc.KeyFinding)
}

func TestExtractTrimsReplyWhitespace(t *testing.T) {
	stub := &stubClient{reply: "\n  {\"research_area\": \"proteomics\"}  \n"}
	e := NewExtractor(stub, zerolog.Nop(), llm.Options{})

	rc := e.Extract(context.Background(), "Title", "Abstract")
	assert.Equal(t, "proteomics", rc.ResearchArea)
}

func TestDefaultResearchContextIsStable(t *testing.T) {
	assert.Equal(t, types.DefaultResearchContext(), types.DefaultResearchContext())
	assert.NotEmpty(t, types.DefaultResearchContext().ResearchArea)
}
