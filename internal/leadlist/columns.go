package leadlist

// Column identifies a list column.
type Column string

const (
	ColLeadDate     Column = "leadDate"
	ColClientName   Column = "clientName"
	ColMobile       Column = "mobileNumber"
	ColCompany      Column = "companyName"
	ColSource       Column = "source"
	ColStatus       Column = "status"
	ColUrgency      Column = "urgency"
	ColAssignedTo   Column = "assignedTo"
	ColFollowupDate Column = "followupDate"
	ColCreatedDate  Column = "createdDate"
	ColReferredBy   Column = "referredBy"
)

// AllColumns lists every column in display order.
var AllColumns = []Column{
	ColLeadDate,
	ColClientName,
	ColMobile,
	ColCompany,
	ColSource,
	ColStatus,
	ColUrgency,
	ColAssignedTo,
	ColFollowupDate,
	ColCreatedDate,
	ColReferredBy,
}

// Titles maps columns to header labels.
var Titles = map[Column]string{
	ColLeadDate:     "Lead Date",
	ColClientName:   "Client",
	ColMobile:       "Mobile",
	ColCompany:      "Company",
	ColSource:       "Source",
	ColStatus:       "Status",
	ColUrgency:      "Urgency",
	ColAssignedTo:   "Assigned To",
	ColFollowupDate: "Follow-up",
	ColCreatedDate:  "Created",
	ColReferredBy:   "Referred By",
}

// Columns tracks per-column visibility. It is purely presentational and
// independent of filtering and sorting.
type Columns struct {
	hidden map[Column]bool
}

// NewColumns returns the default visibility: everything except the created
// date and referred-by columns, which are noisy on narrow terminals.
func NewColumns() *Columns {
	return &Columns{hidden: map[Column]bool{
		ColCreatedDate: true,
		ColReferredBy:  true,
	}}
}

// Visible reports whether a column is shown.
func (c *Columns) Visible(col Column) bool { return !c.hidden[col] }

// Toggle flips one column's visibility.
func (c *Columns) Toggle(col Column) {
	if c.hidden[col] {
		delete(c.hidden, col)
	} else {
		c.hidden[col] = true
	}
}

// VisibleColumns returns the shown columns in display order.
func (c *Columns) VisibleColumns() []Column {
	var out []Column
	for _, col := range AllColumns {
		if c.Visible(col) {
			out = append(out, col)
		}
	}
	return out
}
