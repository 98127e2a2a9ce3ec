// Package authz decides which role may perform which action on a resource.
package authz

import (
	"fmt"
	"sync"

	"donaciones/pkg/types"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// DefaultPolicies gives staff full access. Regular users may only look at
// their home page and submit donations.
var DefaultPolicies = [][]string{
	{string(types.RoleStaff), "*", "*"},
	{string(types.RoleUser), string(types.ResourceDashboard), string(types.ActionRead)},
	{string(types.RoleUser), string(types.ResourceDonations), string(types.ActionCreate)},
}

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
}

func New(policies [][]string) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if len(policies) > 0 {
		if _, err := enforcer.AddPolicies(policies); err != nil {
			return nil, fmt.Errorf("failed to add policies: %w", err)
		}
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// Allowed reports whether role may perform action on resource. An empty role
// is never allowed anything.
func (e *Enforcer) Allowed(role types.Role, resource types.Resource, action types.Action) (bool, error) {
	if role == "" {
		return false, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(string(role), string(resource), string(action))
	if err != nil {
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}
