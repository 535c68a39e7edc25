package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	t.Run("accepts every known role", func(t *testing.T) {
		for _, r := range AllRoles() {
			parsed, ok := ParseRole(string(r))
			assert.True(t, ok)
			assert.Equal(t, r, parsed)
		}
	})

	t.Run("rejects unknown codes", func(t *testing.T) {
		for _, s := range []string{"", "ceo", "INTERN", "ADMIN"} {
			_, ok := ParseRole(s)
			assert.False(t, ok, "expected %q to be rejected", s)
		}
	})
}

func TestRoleIsAdmin(t *testing.T) {
	admins := []Role{RoleCEO, RoleOwner, RoleTeamLead, RoleTechLead}
	staff := []Role{RoleBuyer, RoleDesigner, RoleFarmer, RoleManager, RoleAccountant}

	for _, r := range admins {
		assert.True(t, r.IsAdmin(), "%s should be admin", r)
	}
	for _, r := range staff {
		assert.False(t, r.IsAdmin(), "%s should not be admin", r)
	}
}

func TestRoleDisplayLabel(t *testing.T) {
	assert.Equal(t, "Team Lead", RoleTeamLead.DisplayLabel())

	SetDisplayLabel(RoleFarmer, "Traffic Farmer")
	assert.Equal(t, "Traffic Farmer", RoleFarmer.DisplayLabel())
	SetDisplayLabel(RoleFarmer, "Farmer")

	// overriding an unknown role must not widen the set
	SetDisplayLabel(Role("INTERN"), "Intern")
	_, ok := ParseRole("INTERN")
	assert.False(t, ok)
}
