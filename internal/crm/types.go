// Package crm defines the domain types shared by every layer of the client:
// leads, company-scoped lookup rows, users and roles. All authoritative state
// lives behind the HTTP API; these types only mirror its JSON shapes.
package crm

import "time"

// Lead is a sales prospect record tracked through a status pipeline.
// LeadSourceID is immutable once the lead exists; edit forms never render it.
type Lead struct {
	LeadID int64 `json:"leadId"`

	LeadDate     string `json:"leadDate,omitempty"`
	FollowupDate string `json:"followupDate,omitempty"`
	CreatedDate  string `json:"createdDate,omitempty"`

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
	CreatedByUserID  int64  `json:"createdByUserId,omitempty"`

	// ReadOnly is set by the backend for viewers who may see but not edit
	// this lead (e.g. a Referral Partner looking at a lead they referred).
	ReadOnly bool `json:"readOnly,omitempty"`
}

// LookupRow is a company-scoped lookup entry (lead source, lead status or
// urgency level). Inactive rows stay referenceable by historic leads but are
// filtered out of selection dropdowns.
type LookupRow struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
}

// User is a CRM user: an assignable owner, a referral partner, or the
// authenticated caller.
type User struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
}

// EmailSettings holds the company outbound-email configuration edited on the
// settings page. The backend owns delivery; this is configuration only.
type EmailSettings struct {
	FromName     string `json:"fromName"`
	FromAddress  string `json:"fromAddress"`
	ReplyTo      string `json:"replyTo,omitempty"`
	DailySummary bool   `json:"dailySummary"`
}

// StatusCount pairs a lookup row name with the number of leads in it, as
// aggregated by the backend report endpoint.
type StatusCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LeadSummary is the dashboard aggregate returned by the report endpoint.
type LeadSummary struct {
	TotalLeads   int           `json:"totalLeads"`
	OpenLeads    int           `json:"openLeads"`
	DueFollowups int           `json:"dueFollowups"`
	ByStatus     []StatusCount `json:"byStatus"`
	BySource     []StatusCount `json:"bySource"`
}

// DateOnly is the wire format for date fields (leadDate, followupDate).
const DateOnly = "2006-01-02"

// FormatDate renders a time in the wire date format.
func FormatDate(t time.Time) string {
	return t.Format(DateOnly)
}
