package auth

import (
	"blog-admin/internal/logger"
	"fmt"

	"github.com/casbin/casbin/v2"
)

// DefaultPolicies grant staff the whole admin console and deny blog deletion
// to everyone, superusers included.
var DefaultPolicies = [][]string{
	{RoleStaff, "/admin/*", "*", "allow"},
	{RoleStaff, "/admin/blogs/:id/delete", "*", "deny"},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	if has, _ := e.HasRoleForUser(RoleSuperuser, RoleStaff); !has {
		if _, err := e.AddRoleForUser(RoleSuperuser, RoleStaff); err != nil {
			log.Error(err, "Failed to add role 'superuser' -> 'staff'")
		}
	}
	log.Info("Policy seeding complete.")
}
