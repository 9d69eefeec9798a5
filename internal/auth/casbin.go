package auth

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	"github.com/casbin/casbin/v2/util"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// Roles known to the admin console. A superuser inherits every staff permission.
const (
	RoleStaff     = "staff"
	RoleSuperuser = "superuser"
)

// rbacModel is an RBAC model with explicit deny rules: a request is allowed when
// some policy allows it and no policy denies it.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act, eft

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// NewSQLAdapter creates a casbin adapter that stores policies in the
// application database.
func NewSQLAdapter(driverName, dsn string) persist.Adapter {
	opts := &sqlxadapter.AdapterOptions{
		DriverName:     driverName,
		DataSourceName: dsn,
		TableName:      "casbin_rule",
	}
	return sqlxadapter.NewAdapterFromOptions(opts)
}

// NewEnforcer creates a casbin enforcer for the admin RBAC model.
// With a nil adapter policies live only in memory.
func NewEnforcer(adapter persist.Adapter) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	var enforcer *casbin.Enforcer
	if adapter == nil {
		enforcer, err = casbin.NewEnforcer(m)
	} else {
		// NewEnforcer loads the stored policies through the adapter.
		enforcer, err = casbin.NewEnforcer(m, adapter)
	}
	if err != nil {
		return nil, err
	}

	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	return enforcer, nil
}

// SubjectFor maps an account to the casbin subject used for enforcement.
func SubjectFor(isSuperuser bool) string {
	if isSuperuser {
		return RoleSuperuser
	}
	return RoleStaff
}
