package domain

// Role identifies what a member does in their team and whether they can
// administer it. The set of roles is closed: anything outside it is
// rejected at parse time.
type Role string

const (
	RoleCEO        Role = "CEO"
	RoleOwner      Role = "OWNER"
	RoleTeamLead   Role = "TEAM_LEAD"
	RoleTechLead   Role = "TECH_LEAD"
	RoleBuyer      Role = "BUYER"
	RoleDesigner   Role = "DESIGNER"
	RoleFarmer     Role = "FARMER"
	RoleManager    Role = "MANAGER"
	RoleAccountant Role = "ACCOUNTANT"
)

var adminRoles = map[Role]bool{
	RoleCEO:      true,
	RoleOwner:    true,
	RoleTeamLead: true,
	RoleTechLead: true,
}

var allRoles = []Role{
	RoleCEO,
	RoleOwner,
	RoleTeamLead,
	RoleTechLead,
	RoleBuyer,
	RoleDesigner,
	RoleFarmer,
	RoleManager,
	RoleAccountant,
}

// displayLabels maps each role to the label shown to users. Deployments
// can swap labels without touching the stored role codes.
var displayLabels = map[Role]string{
	RoleCEO:        "CEO",
	RoleOwner:      "Owner",
	RoleTeamLead:   "Team Lead",
	RoleTechLead:   "Tech Lead",
	RoleBuyer:      "Buyer",
	RoleDesigner:   "Designer",
	RoleFarmer:     "Farmer",
	RoleManager:    "Manager",
	RoleAccountant: "Accountant",
}

func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole validates a stored or user-supplied role code.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if _, ok := displayLabels[r]; !ok {
		return "", false
	}
	return r, true
}

// IsAdmin reports whether the role carries team administration rights.
func (r Role) IsAdmin() bool {
	return adminRoles[r]
}

func (r Role) DisplayLabel() string {
	if label, ok := displayLabels[r]; ok {
		return label
	}
	return string(r)
}

// SetDisplayLabel overrides the label for a known role. Unknown roles
// are ignored so the closed set stays closed.
func SetDisplayLabel(r Role, label string) {
	if _, ok := displayLabels[r]; ok {
		displayLabels[r] = label
	}
}
