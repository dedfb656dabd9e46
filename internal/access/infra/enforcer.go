package infra

import (
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
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Default role grants. SUPER_ADMIN inherits ADMIN, ADMIN inherits MANAGER.
var policies = [][]string{
	{"EMPLOYEE", "time_entry", "create"},
	{"EMPLOYEE", "time_entry", "read"},
	{"MANAGER", "time_entry", "approve"},
	{"MANAGER", "payroll_run", "read"},
	{"MANAGER", "pay_stub", "read"},
	{"ADMIN", "payroll_run", "create"},
	{"ADMIN", "payroll_run", "finalize"},
	{"ADMIN", "payroll_run", "delete"},
	{"ADMIN", "pay_stub", "create"},
	{"ADMIN", "payroll_settings", "read"},
	{"ADMIN", "payroll_settings", "update"},
	{"ADMIN", "employee", "create"},
	{"ADMIN", "employee", "update"},
	{"MANAGER", "employee", "read"},
}

var roleLinks = [][]string{
	{"MANAGER", "EMPLOYEE"},
	{"ADMIN", "MANAGER"},
	{"SUPER_ADMIN", "ADMIN"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range roleLinks {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
