// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

func TestBuildPromptInitial(t *testing.T) {
	prompt, err := buildPrompt(types.VariantInitial, testRecord(), "", "platform capabilities here")
	require.NoError(t, err)

	assert.Contains(t, prompt, `"Mapping Tau Aggregation"`)
	assert.Contains(t, prompt, "Ada Lovelace")
	assert.Contains(t, prompt, "We image tau aggregation in longitudinal cohorts.")
	assert.Contains(t, prompt, "platform capabilities here")
}

func TestBuildPromptReminders(t *testing.T) {
	prior := "This is the post-processed predecessor body."

	for _, kind := range []types.VariantKind{types.VariantReminder1, types.VariantReminder2} {
		prompt, err := buildPrompt(kind, testRecord(), prior, "")
		require.NoError(t, err, "variant %s", kind)
		assert.Contains(t, prompt, prior, "variant %s must quote the predecessor", kind)
		assert.Contains(t, prompt, "Previous Email:", "variant %s", kind)
	}
}

func TestBuildPromptFeatureVariants(t *testing.T) {
	tests := []struct {
		kind    types.VariantKind
		wantURL string
	}{
		{types.VariantSearch, "https://www.euretos.com/search"},
		{types.VariantAnalytics, "https://www.euretos.com/euretos-analytics"},
		{types.VariantKnowledgeGraph, "https://www.euretos.com/knowledge-graph"},
		{types.VariantPortal, "https://www.euretos.com/portal"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			prompt, err := buildPrompt(tt.kind, testRecord(), "", "platform info")
			require.NoError(t, err)
			assert.Contains(t, prompt, tt.wantURL)
			assert.Contains(t, prompt, "We image tau aggregation in longitudinal cohorts.")
			assert.Contains(t, prompt, "platform info")
		})
	}
}

func TestBuildPromptUnknownVariant(t *testing.T) {
	_, err := buildPrompt("newsletter", testRecord(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variant")
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"returns text through first period", "One. Two. Three.", "One."},
		{"returns whole text without sentence break", "No terminal period here", "No terminal period here"},
		{"trims whitespace first", "  Leading space. Rest.", "Leading space."},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstSentence(tt.in))
		})
	}
}
