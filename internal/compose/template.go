// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// featureBenefit holds the static per-variant phrase substituted into the
// fixed templates.
var featureBenefits = map[types.VariantKind]string{
	types.VariantInitial:        "connect your findings to every published association in the literature",
	types.VariantReminder1:      "connect your findings to every published association in the literature",
	types.VariantReminder2:      "connect your findings to every published association in the literature",
	types.VariantSearch:         "find every published association for the concepts in your work in seconds",
	types.VariantAnalytics:      "quantify how strongly the concepts in your work are linked across the full literature",
	types.VariantKnowledgeGraph: "trace mechanistic paths between the genes, pathways, and diseases in your work",
	types.VariantPortal:         "keep your searches, analyses, and graphs together in one workspace",
}

// templateInput is the placeholder set available to the fixed templates.
type templateInput struct {
	Title                string
	Journal              string
	Authors              string
	ResearchArea         string
	KeyFinding           string
	Methodology          string
	PotentialApplication string
	Benefit              string
	PriorExcerpt         string
}

// variantTemplates holds the fixed natural-language template per variant.
// Filling one is deterministic given identical inputs; no model call is made.
var variantTemplates = map[types.VariantKind]*template.Template{
	types.VariantInitial: mustTemplate("mail_1", `I recently read your article "{{.Title}}" in {{.Journal}} and was struck by the finding that {{.KeyFinding}}. Work in {{.ResearchArea}} built on {{.Methodology}} is exactly where our platform adds value: it can {{.Benefit}}, which could support {{.PotentialApplication}}. I would welcome the chance to show you how this applies to your research.`),

	types.VariantReminder1: mustTemplate("reminder_1", `I wanted to follow up on my earlier note about "{{.Title}}" ({{.PriorExcerpt}}). The offer stands: our platform can {{.Benefit}}, and I believe it would be directly useful for {{.PotentialApplication}}. Would a short call in the coming weeks suit you?`),

	types.VariantReminder2: mustTemplate("reminder_2", `One last note regarding your work on {{.ResearchArea}}. The finding that {{.KeyFinding}} deserves a wider audience, and we can help it travel further. If the timing is wrong, a simple no is perfectly fine.`),

	types.VariantSearch: mustTemplate("search_mail", `Searching the literature around "{{.Title}}" is exactly what our search module was built for: it can {{.Benefit}}. For a team working on {{.ResearchArea}}, that turns days of reading into minutes.`),

	types.VariantAnalytics: mustTemplate("analytics_mail", `Your use of {{.Methodology}} raises questions our analytics module answers directly: it can {{.Benefit}}. Applied to the concepts behind "{{.Title}}", that gives a quantitative view of where {{.PotentialApplication}} is most promising.`),

	types.VariantKnowledgeGraph: mustTemplate("kg_mail", `The knowledge graphs we build can {{.Benefit}}. For your work on {{.ResearchArea}}, that means placing the finding that {{.KeyFinding}} in its full mechanistic context.`),

	types.VariantPortal: mustTemplate("portal_mail", `Our portal can {{.Benefit}}. For a project like "{{.Title}}", that keeps the whole line of inquiry, from first search to final graph, in one place for your team.`),
}

func mustTemplate(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(body))
}

// fillTemplate renders the fixed template for kind from the record, context,
// and static benefit phrase.
func fillTemplate(kind types.VariantKind, record *types.WorkRecord, rctx types.ResearchContext, priorText string) (string, error) {
	tmpl, ok := variantTemplates[kind]
	if !ok {
		return "", fmt.Errorf("no template for variant %q", kind)
	}

	in := templateInput{
		Title:                record.Title,
		Journal:              record.Journal,
		Authors:              record.AuthorNames(),
		ResearchArea:         rctx.ResearchArea,
		KeyFinding:           rctx.KeyFinding,
		Methodology:          rctx.Methodology,
		PotentialApplication: rctx.PotentialApplication,
		Benefit:              featureBenefits[kind],
		PriorExcerpt:         firstSentence(priorText),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("rendering template for %q: %w", kind, err)
	}
	return buf.String(), nil
}

// firstSentence returns the text up to and including the first period, used
// to quote the prior email briefly in reminder templates.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, ". "); idx >= 0 {
		return text[:idx+1]
	}
	return text
}
