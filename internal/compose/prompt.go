// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"fmt"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// persona is the fixed system prompt for every generative call. It keeps the
// output to a bare email body and forces reference to the specific research.
const persona = "You are a message assistant for publishing-industry outreach. " +
	"Generate only the body of the email: no greeting, no closing, no signature. " +
	"Keep the tone professional and reference the specific research, never \"the abstract\"."

// featurePages maps each independent feature variant to the product page its
// prompt describes.
var featurePages = map[types.VariantKind]struct {
	url     string
	feature string
}{
	types.VariantSearch:         {"https://www.euretos.com/search", "search"},
	types.VariantAnalytics:      {"https://www.euretos.com/euretos-analytics", "analytics"},
	types.VariantKnowledgeGraph: {"https://www.euretos.com/knowledge-graph", "knowledge graph"},
	types.VariantPortal:         {"https://www.euretos.com/portal", "portal"},
}

// buildPrompt assembles the variant-specific instruction for the generative
// strategy. Reminder variants receive the fully post-processed text of their
// predecessor in priorText; feature variants receive only record and
// platform information.
func buildPrompt(kind types.VariantKind, record *types.WorkRecord, priorText, platformInfo string) (string, error) {
	switch kind {
	case types.VariantInitial:
		return fmt.Sprintf(`Below are two pieces of text. The first is the abstract of the article %q written by %s. The second is information about the platform and its capabilities. Highlight how the platform helps their research specifically and provide only the core content as output.

Abstract:
%s

Platform Information:
%s`, record.Title, record.AuthorNames(), record.Abstract, platformInfo), nil

	case types.VariantReminder1:
		return fmt.Sprintf(`Based on the previous message sent about how the platform helps their research, write only the body of the email, without salutations, as a shortened version of the previous email.

Previous Email:
%s`, priorText), nil

	case types.VariantReminder2:
		return fmt.Sprintf(`Based on the previous message, write a shorter version of the previous email focusing more on the research and less on the platform's capabilities.

Previous Email:
%s`, priorText), nil
	}

	page, ok := featurePages[kind]
	if !ok {
		return "", fmt.Errorf("unknown variant %q", kind)
	}
	return fmt.Sprintf(`Describe the %s capabilities offered at %s in relation to the research described in the abstract below, and how they would benefit this work specifically.

Abstract:
%s

Platform Information:
%s`, page.feature, page.url, record.Abstract, platformInfo), nil
}
