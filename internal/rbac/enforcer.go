package rbac

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/domain"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// permission rows, grouped by the two internal groups "member" and
// "admin". Role codes are mapped onto the groups below.
var policies = [][]string{
	{"member", ResourceRequests, ActionSubmit},
	{"member", ResourceRequests, ActionCancel},
	{"member", ResourceRequests, ActionListOwn},
	{"member", ResourceTeam, ActionLeave},
	{"member", ResourceCatalog, ActionRead},
	{"member", ResourceSettings, ActionRead},

	{"admin", ResourceRequests, ActionListTeam},
	{"admin", ResourceRequests, ActionDecide},
	{"admin", ResourceMembers, ActionManage},
	{"admin", ResourceCatalog, ActionManage},
	{"admin", ResourceForbidden, ActionManage},
	{"admin", ResourceSettings, ActionManage},
}

// NewEnforcer builds an in-memory enforcer seeded from the closed role
// set. Policy never changes at runtime, so there is no storage adapter.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add policy %v: %w", p, err)
		}
	}

	for _, role := range domain.AllRoles() {
		if _, err := e.AddGroupingPolicy(string(role), "member"); err != nil {
			return nil, err
		}
		if role.IsAdmin() {
			if _, err := e.AddGroupingPolicy(string(role), "admin"); err != nil {
				return nil, err
			}
		}
	}

	return e, nil
}
