// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// VariantKind names one email slot generated per work.
type VariantKind string

const (
	// VariantInitial is the first outreach email.
	VariantInitial VariantKind = "mail_1"

	// VariantReminder1 is the first follow-up; it builds on the
	// post-processed initial email.
	VariantReminder1 VariantKind = "reminder_1"

	// VariantReminder2 is the second follow-up; it builds on the
	// post-processed first reminder.
	VariantReminder2 VariantKind = "reminder_2"

	// VariantSearch highlights the platform's search capabilities.
	VariantSearch VariantKind = "search_mail"

	// VariantAnalytics highlights the platform's analytics capabilities.
	VariantAnalytics VariantKind = "analytics_mail"

	// VariantKnowledgeGraph highlights the platform's knowledge graphs.
	VariantKnowledgeGraph VariantKind = "kg_mail"

	// VariantPortal highlights the platform portal.
	VariantPortal VariantKind = "portal_mail"
)

// GenerationOrder lists every variant in a valid generation order: each
// reminder appears after the variant it depends on. Feature variants carry
// no ordering constraint among themselves.
func GenerationOrder() []VariantKind {
	return []VariantKind{
		VariantInitial,
		VariantReminder1,
		VariantReminder2,
		VariantSearch,
		VariantAnalytics,
		VariantKnowledgeGraph,
		VariantPortal,
	}
}

// Predecessor returns the variant whose post-processed text feeds into kind,
// or "" when kind is generated independently. The reminder chain is strictly
// linear: mail_1 → reminder_1 → reminder_2.
func Predecessor(kind VariantKind) VariantKind {
	switch kind {
	case VariantReminder1:
		return VariantInitial
	case VariantReminder2:
		return VariantReminder1
	}
	return ""
}

// ExportHeader is the column label used for this variant in exported tables.
func (v VariantKind) ExportHeader() string {
	switch v {
	case VariantInitial:
		return "Mail_1"
	case VariantReminder1:
		return "Reminder_1"
	case VariantReminder2:
		return "Reminder_2"
	case VariantSearch:
		return "Search_mail"
	case VariantAnalytics:
		return "Analytics_mail"
	case VariantKnowledgeGraph:
		return "KG_mail"
	case VariantPortal:
		return "Portal_mail"
	}
	return string(v)
}
