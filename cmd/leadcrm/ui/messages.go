package ui

import (
	"leadcrm/internal/api"
	"leadcrm/internal/crm"
	"leadcrm/internal/lookup"
)

// Messages produced by the asynchronous commands the pages issue. Every
// result message carries enough identity (generation or sequence) for the
// receiving page to discard late responses after a modal closed or a newer
// request superseded it.

// RefsLoadedMsg delivers a reference-data snapshot to the form page.
type RefsLoadedMsg struct {
	Data lookup.ReferenceData
}

// ListRefsLoadedMsg delivers lookup data to the list page (filter options,
// bulk-mutation choices). Kept distinct from RefsLoadedMsg so the router can
// never hand a list snapshot to the form.
type ListRefsLoadedMsg struct {
	Data lookup.ReferenceData
}

// ExportDoneMsg reports an export download outcome.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// LeadsLoadedMsg delivers one page of list results.
type LeadsLoadedMsg struct {
	Seq  int
	Page api.LeadPage
	Err  error
}

// LeadLoadedMsg delivers a single lead fetched for editing.
type LeadLoadedMsg struct {
	Generation int
	Lead       crm.Lead
	Err        error
}

// SubmitDoneMsg reports the outcome of a form submit.
type SubmitDoneMsg struct {
	Generation int
	Err        error
}

// SuccessShownMsg ends the transient success state of the form.
type SuccessShownMsg struct {
	Generation int
}

// MutationDoneMsg reports a narrow list mutation (reschedule, note, status
// change, bulk ops).
type MutationDoneMsg struct {
	Action string
	Err    error
}

// SummaryLoadedMsg delivers the dashboard aggregate.
type SummaryLoadedMsg struct {
	Summary crm.LeadSummary
	Err     error
}

// SettingsLoadedMsg delivers the settings collections.
type SettingsLoadedMsg struct {
	Sources   []crm.LookupRow
	Statuses  []crm.LookupRow
	Urgencies []crm.LookupRow
	Email     crm.EmailSettings
	Err       error
}

// SettingsSavedMsg reports a settings mutation outcome.
type SettingsSavedMsg struct {
	What string
	Err  error
}

// SearchDebouncedMsg fires after the search-input quiet period.
type SearchDebouncedMsg struct {
	Seq int
}

// BannerExpiredMsg clears a transient notification banner.
type BannerExpiredMsg struct {
	Seq int
}
