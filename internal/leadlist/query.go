// Package leadlist holds the query state behind the lead list view: filters,
// sort, pagination and column visibility. The backend does the actual
// filtering; this package only shapes the request and enforces the
// page-reset and sort-toggle rules.
package leadlist

import (
	"net/url"
	"strconv"
)

// SortDir is a sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// DefaultPageSize is the page size used until the user changes it.
const DefaultPageSize = 25

// Filters are the user-selectable constraints. Dates travel as yyyy-mm-dd
// strings; zero values mean "no constraint".
type Filters struct {
	LeadDateFrom    string
	LeadDateTo      string
	FollowupFrom    string
	FollowupTo      string
	CreatedFrom     string
	CreatedTo       string
	LeadSourceID    *int64
	LeadStatusID    *int64
	UrgencyLevelID  *int64
	AssignedTo      *int64
	BudgetMin       *float64
	BudgetMax       *float64
	Search          string
}

// Query is the full request state for one page of results.
type Query struct {
	Filters  Filters
	SortKey  string
	SortDir  SortDir
	Page     int
	PageSize int
}

// NewQuery returns the default query: first page, lead date descending.
func NewQuery() Query {
	return Query{
		SortKey:  "leadDate",
		SortDir:  SortDesc,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// SetFilters replaces the filter set and resets to page 1. Every filter
// mutation goes through here so the reset rule cannot be skipped.
func (q *Query) SetFilters(f Filters) {
	q.Filters = f
	q.Page = 1
}

// ClearFilters drops all filters and resets to page 1.
func (q *Query) ClearFilters() {
	q.SetFilters(Filters{})
}

// ToggleSort sorts ascending on a newly chosen column and flips direction on
// the column already sorted.
func (q *Query) ToggleSort(key string) {
	if q.SortKey == key {
		if q.SortDir == SortAsc {
			q.SortDir = SortDesc
		} else {
			q.SortDir = SortAsc
		}
		return
	}
	q.SortKey = key
	q.SortDir = SortAsc
}

// SetPage moves to a page (1-based). Out-of-range values clamp to 1.
func (q *Query) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	q.Page = page
}

// SetPageSize changes the page size and resets to page 1.
func (q *Query) SetPageSize(size int) {
	if size < 1 {
		size = DefaultPageSize
	}
	q.PageSize = size
	q.Page = 1
}

// Values encodes the query as request parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	f := q.Filters

	setStr := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	setID := func(key string, id *int64) {
		if id != nil {
			v.Set(key, strconv.FormatInt(*id, 10))
		}
	}

	setStr("leadDateFrom", f.LeadDateFrom)
	setStr("leadDateTo", f.LeadDateTo)
	setStr("followupDateFrom", f.FollowupFrom)
	setStr("followupDateTo", f.FollowupTo)
	setStr("createdDateFrom", f.CreatedFrom)
	setStr("createdDateTo", f.CreatedTo)
	setID("leadSourceId", f.LeadSourceID)
	setID("leadStatusId", f.LeadStatusID)
	setID("urgencyLevelId", f.UrgencyLevelID)
	setID("assignedToUserId", f.AssignedTo)
	if f.BudgetMin != nil {
		v.Set("budgetMin", strconv.FormatFloat(*f.BudgetMin, 'f', -1, 64))
	}
	if f.BudgetMax != nil {
		v.Set("budgetMax", strconv.FormatFloat(*f.BudgetMax, 'f', -1, 64))
	}
	setStr("search", f.Search)

	v.Set("sortBy", q.SortKey)
	v.Set("sortDir", string(q.SortDir))
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	return v
}
