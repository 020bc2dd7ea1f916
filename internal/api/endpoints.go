package api

import (
	"context"
	"fmt"
	"net/url"

	"leadcrm/internal/crm"
)

// LeadPayload is the request body for lead create/update. The form controller
// owns the role-forcing rules that shape it; this package just ships it.
type LeadPayload struct {
	LeadDate     string `json:"leadDate,omitempty"`
	FollowupDate string `json:"followupDate,omitempty"`

	ClientName   string `json:"clientName"`
	MobileNumber string `json:"mobileNumber"`
	CompanyName  string `json:"companyName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`

	LeadSourceID   int64  `json:"leadSourceId"`
	LeadStatusID   int64  `json:"leadStatusId"`
	UrgencyLevelID *int64 `json:"urgencyLevelId,omitempty"`

	AssignedToUserID *int64 `json:"assignedToUserId,omitempty"`

	InterestedIn   string `json:"interestedIn,omitempty"`
	Notes          string `json:"notes,omitempty"`
	ExpectedBudget string `json:"expectedBudget,omitempty"`

	ReferredBy       string `json:"referredBy,omitempty"`
	ReferredByUserID *int64 `json:"referredByUserId,omitempty"`
}

// LeadPage is one page of list results.
type LeadPage struct {
	Leads      []crm.Lead `json:"leads"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}

// CreateLead creates a lead and returns the stored record.
func (c *Client) CreateLead(ctx context.Context, p LeadPayload) (crm.Lead, error) {
	var lead crm.Lead
	err := c.do(ctx, "POST", "/lead", nil, p, &lead)
	return lead, err
}

// UpdateLead replaces the mutable fields of an existing lead.
func (c *Client) UpdateLead(ctx context.Context, id int64, p LeadPayload) (crm.Lead, error) {
	var lead crm.Lead
	err := c.do(ctx, "PUT", fmt.Sprintf("/lead/%d", id), nil, p, &lead)
	return lead, err
}

// GetLead fetches one lead by id.
func (c *Client) GetLead(ctx context.Context, id int64) (crm.Lead, error) {
	var lead crm.Lead
	err := c.do(ctx, "GET", fmt.Sprintf("/lead/%d", id), nil, nil, &lead)
	return lead, err
}

// ListLeads fetches one page of leads for the given query parameters.
func (c *Client) ListLeads(ctx context.Context, query url.Values) (LeadPage, error) {
	var page LeadPage
	err := c.do(ctx, "GET", "/lead", query, nil, &page)
	return page, err
}

// Narrow single-purpose mutations. Each returns the standard envelope and
// mutates exactly one aspect of the lead.

// RescheduleFollowup moves a lead's follow-up date.
func (c *Client) RescheduleFollowup(ctx context.Context, id int64, date string) error {
	body := map[string]string{"followupDate": date}
	return c.do(ctx, "PUT", fmt.Sprintf("/lead/%d/reschedule-followup", id), nil, body, nil)
}

// AddNote appends a note to a lead.
func (c *Client) AddNote(ctx context.Context, id int64, note string) error {
	body := map[string]string{"note": note}
	return c.do(ctx, "PUT", fmt.Sprintf("/lead/%d/add-note", id), nil, body, nil)
}

// ChangeStatus moves a lead to another status.
func (c *Client) ChangeStatus(ctx context.Context, id, statusID int64) error {
	body := map[string]int64{"leadStatusId": statusID}
	return c.do(ctx, "PUT", fmt.Sprintf("/lead/%d/change-status", id), nil, body, nil)
}

// BulkAssign assigns a set of leads to one user.
func (c *Client) BulkAssign(ctx context.Context, leadIDs []int64, userID int64) error {
	body := map[string]interface{}{"leadIds": leadIDs, "assignedToUserId": userID}
	return c.do(ctx, "PUT", "/lead/bulk-assign", nil, body, nil)
}

// BulkStatus moves a set of leads to one status.
func (c *Client) BulkStatus(ctx context.Context, leadIDs []int64, statusID int64) error {
	body := map[string]interface{}{"leadIds": leadIDs, "leadStatusId": statusID}
	return c.do(ctx, "PUT", "/lead/bulk-status-update", nil, body, nil)
}

// Me returns the authenticated user for the configured token.
func (c *Client) Me(ctx context.Context) (crm.User, error) {
	var user crm.User
	err := c.do(ctx, "GET", "/user/me", nil, nil, &user)
	return user, err
}

// Lookup collections. Callers filter on IsActive; the backend returns both
// active and inactive rows so historic references stay resolvable.

// LeadSources lists the company's lead sources.
func (c *Client) LeadSources(ctx context.Context) ([]crm.LookupRow, error) {
	var rows []crm.LookupRow
	err := c.do(ctx, "GET", "/lead-sources", nil, nil, &rows)
	return rows, err
}

// LeadStatuses lists the company's lead statuses.
func (c *Client) LeadStatuses(ctx context.Context) ([]crm.LookupRow, error) {
	var rows []crm.LookupRow
	err := c.do(ctx, "GET", "/lead-statuses", nil, nil, &rows)
	return rows, err
}

// UrgencyLevels lists the company's urgency levels.
func (c *Client) UrgencyLevels(ctx context.Context) ([]crm.LookupRow, error) {
	var rows []crm.LookupRow
	err := c.do(ctx, "GET", "/urgency-levels", nil, nil, &rows)
	return rows, err
}

// AssignableUsers lists users the caller may assign leads to.
func (c *Client) AssignableUsers(ctx context.Context) ([]crm.User, error) {
	var users []crm.User
	err := c.do(ctx, "GET", "/user/assignable", nil, nil, &users)
	return users, err
}

// ReferralPartners lists partner-role users. Returns ErrForbidden (wrapped)
// for roles without access; callers treat that as an empty list.
func (c *Client) ReferralPartners(ctx context.Context) ([]crm.User, error) {
	var users []crm.User
	err := c.do(ctx, "GET", "/user/referral-partners", nil, nil, &users)
	return users, err
}

// Settings CRUD. Each lookup kind shares the row shape.

// SaveLookup creates (id == 0) or updates a lookup row of the given kind
// ("lead-sources", "lead-statuses", "urgency-levels").
func (c *Client) SaveLookup(ctx context.Context, kind string, row crm.LookupRow) (crm.LookupRow, error) {
	var saved crm.LookupRow
	var err error
	if row.ID == 0 {
		err = c.do(ctx, "POST", "/"+kind, nil, row, &saved)
	} else {
		err = c.do(ctx, "PUT", fmt.Sprintf("/%s/%d", kind, row.ID), nil, row, &saved)
	}
	return saved, err
}

// ReorderLookup persists a new display order for a lookup kind.
func (c *Client) ReorderLookup(ctx context.Context, kind string, orderedIDs []int64) error {
	body := map[string][]int64{"orderedIds": orderedIDs}
	return c.do(ctx, "PUT", "/"+kind+"/reorder", nil, body, nil)
}

// EmailSettings fetches the company email configuration.
func (c *Client) EmailSettings(ctx context.Context) (crm.EmailSettings, error) {
	var s crm.EmailSettings
	err := c.do(ctx, "GET", "/settings/email", nil, nil, &s)
	return s, err
}

// SaveEmailSettings stores the company email configuration.
func (c *Client) SaveEmailSettings(ctx context.Context, s crm.EmailSettings) error {
	return c.do(ctx, "PUT", "/settings/email", nil, s, nil)
}

// LeadSummary fetches the dashboard aggregate.
func (c *Client) LeadSummary(ctx context.Context) (crm.LeadSummary, error) {
	var s crm.LeadSummary
	err := c.do(ctx, "GET", "/reports/lead-summary", nil, nil, &s)
	return s, err
}

// ExportLeads downloads a report blob in the given format ("xlsx" or "csv"),
// scoped by the same query parameters as ListLeads.
func (c *Client) ExportLeads(ctx context.Context, format string, query url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("format", format)
	return c.doRaw(ctx, "GET", "/lead/export", q)
}
