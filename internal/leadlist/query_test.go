package leadlist

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterChangeResetsPage(t *testing.T) {
	t.Parallel()

	q := NewQuery()
	q.SetPage(4)

	id := int64(2)
	q.SetFilters(Filters{LeadSourceID: &id})
	assert.Equal(t, 1, q.Page, "changing filters must jump back to the first page")

	q.SetPage(3)
	q.ClearFilters()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, Filters{}, q.Filters)
}

func TestToggleSort(t *testing.T) {
	t.Parallel()

	q := NewQuery()
	assert.Equal(t, "leadDate", q.SortKey)
	assert.Equal(t, SortDesc, q.SortDir)

	// same column flips direction
	q.ToggleSort("leadDate")
	assert.Equal(t, SortAsc, q.SortDir)
	q.ToggleSort("leadDate")
	assert.Equal(t, SortDesc, q.SortDir)

	// new column starts ascending
	q.ToggleSort("clientName")
	assert.Equal(t, "clientName", q.SortKey)
	assert.Equal(t, SortAsc, q.SortDir)
}

func TestSetPageClamps(t *testing.T) {
	t.Parallel()

	q := NewQuery()
	q.SetPage(0)
	assert.Equal(t, 1, q.Page)
	q.SetPage(-3)
	assert.Equal(t, 1, q.Page)
	q.SetPage(7)
	assert.Equal(t, 7, q.Page)
}

func TestSetPageSizeResetsPage(t *testing.T) {
	t.Parallel()

	q := NewQuery()
	q.SetPage(5)
	q.SetPageSize(50)
	assert.Equal(t, 50, q.PageSize)
	assert.Equal(t, 1, q.Page)

	q.SetPageSize(0)
	assert.Equal(t, DefaultPageSize, q.PageSize)
}

func TestValues(t *testing.T) {
	t.Parallel()

	t.Run("defaults carry only sort and paging", func(t *testing.T) {
		want := url.Values{
			"sortBy":   {"leadDate"},
			"sortDir":  {"desc"},
			"page":     {"1"},
			"pageSize": {"25"},
		}
		if diff := cmp.Diff(want, NewQuery().Values()); diff != "" {
			t.Errorf("Values() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("filters encode with backend parameter names", func(t *testing.T) {
		q := NewQuery()
		src := int64(2)
		min := 1000.5
		q.SetFilters(Filters{
			LeadDateFrom: "2026-01-01",
			LeadDateTo:   "2026-01-31",
			LeadSourceID: &src,
			BudgetMin:    &min,
			Search:       "acme",
		})
		v := q.Values()
		assert.Equal(t, "2026-01-01", v.Get("leadDateFrom"))
		assert.Equal(t, "2026-01-31", v.Get("leadDateTo"))
		assert.Equal(t, "2", v.Get("leadSourceId"))
		assert.Equal(t, "1000.5", v.Get("budgetMin"))
		assert.Equal(t, "acme", v.Get("search"))
	})
}

func TestColumns(t *testing.T) {
	t.Parallel()

	c := NewColumns()

	// created date and referred by start hidden
	assert.False(t, c.Visible(ColCreatedDate))
	assert.False(t, c.Visible(ColReferredBy))
	assert.True(t, c.Visible(ColLeadDate))

	c.Toggle(ColCreatedDate)
	assert.True(t, c.Visible(ColCreatedDate))
	c.Toggle(ColLeadDate)
	assert.False(t, c.Visible(ColLeadDate))

	vis := c.VisibleColumns()
	assert.NotContains(t, vis, ColLeadDate)
	assert.Contains(t, vis, ColCreatedDate)
}
