package crm

import "strings"

// Role is the closed set of user roles. Role is the sole axis of permission
// variation in the client; everything else derives from Permissions.
type Role int

const (
	RoleUnknown Role = iota
	RoleSystemAdmin
	RoleCompanyAdmin
	RoleCompanyManager
	RoleTeamMember
	RoleReferralPartner
)

var roleNames = map[Role]string{
	RoleSystemAdmin:     "System Admin",
	RoleCompanyAdmin:    "Company Admin",
	RoleCompanyManager:  "Company Manager",
	RoleTeamMember:      "Team Member",
	RoleReferralPartner: "Referral Partner",
}

// String returns the backend's display name for the role.
func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "Unknown"
}

// ParseRole maps a backend role name to a Role. Matching is case-insensitive
// and tolerates underscore/hyphen separators.
func ParseRole(s string) Role {
	norm := strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(s)))
	switch norm {
	case "system admin":
		return RoleSystemAdmin
	case "company admin":
		return RoleCompanyAdmin
	case "company manager":
		return RoleCompanyManager
	case "team member":
		return RoleTeamMember
	case "referral partner":
		return RoleReferralPartner
	}
	return RoleUnknown
}

// MarshalText implements encoding.TextMarshaler for JSON round-trips.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	*r = ParseRole(string(b))
	return nil
}

// Permissions is derived once from a Role and consumed everywhere, instead of
// scattering role comparisons through the pages.
type Permissions struct {
	CanAssign         bool // may pick an assignee from the dropdown
	AssignLockedSelf  bool // assign-to shown disabled as self, payload forced to self
	CanSeeAssignedTo  bool // assign-to field rendered at all
	CanSeeSourceField bool // lead-source field rendered in create mode
	SourceLockedToReferral bool // source forced to the Referral row and disabled
	ReferredByLockedSelf   bool // referred-by forced to own name, read-only
	CanListPartners   bool // may call the referral-partner listing endpoint
	CanBulkMutate     bool // bulk assign / bulk status update affordances
	CanAddLeads       bool // add-lead affordance on the list page
	CanManageSettings bool // settings page visible in navigation
	CanSeeDashboard   bool
}

// PermissionsFor derives the permission set for a role.
func PermissionsFor(r Role) Permissions {
	p := Permissions{
		CanSeeAssignedTo:  true,
		CanSeeSourceField: true,
		CanListPartners:   true,
		CanAddLeads:       true,
		CanSeeDashboard:   true,
	}
	switch r {
	case RoleSystemAdmin, RoleCompanyAdmin:
		p.CanAssign = true
		p.CanBulkMutate = true
		p.CanManageSettings = true
	case RoleCompanyManager:
		p.CanAssign = true
		p.CanBulkMutate = true
	case RoleTeamMember:
		p.AssignLockedSelf = true
	case RoleReferralPartner:
		p.CanSeeAssignedTo = false
		p.SourceLockedToReferral = true
		p.ReferredByLockedSelf = true
		p.CanListPartners = false
		p.CanSeeDashboard = false
	}
	return p
}
