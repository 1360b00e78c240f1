// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import "strings"

// replacementRule is one literal substitution in the post-processing pass.
type replacementRule struct {
	old string
	new string
}

// replacementRules is the fixed, ordered list applied to every generated
// body: collapse repeated punctuation, swap the forbidden phrase for the
// approved one, normalize double spaces. Order matters; each rule runs to a
// fixed point so the whole pass is idempotent.
var replacementRules = []replacementRule{
	{"!!", "!"},
	{"..", "."},
	{",,", ","},
	{"the abstract", "your research"},
	{"  ", " "},
}

// PostProcess applies the replacement rules in order and trims surrounding
// whitespace. Applying it twice yields the same result as applying it once.
func PostProcess(body string) string {
	for _, rule := range replacementRules {
		for strings.Contains(body, rule.old) {
			body = strings.ReplaceAll(body, rule.old, rule.new)
		}
	}
	return strings.TrimSpace(body)
}
