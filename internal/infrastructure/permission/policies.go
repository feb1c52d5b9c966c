package permission

import (
	"fmt"

	"nmqueue/internal/shared/constants"
	"nmqueue/internal/shared/logger"
)

// sitePolicies is the fixed role-to-resource grant table. Fine-grained
// relational checks happen in the domain engine after these coarse gates.
var sitePolicies = [][]string{
	{constants.RoleAM, "process", "read"},
	{constants.RoleAM, "process", "write"},
	{constants.RoleAM, "person", "read"},

	{constants.RoleFrontDesk, "process", "read"},
	{constants.RoleFrontDesk, "process", "write"},
	{constants.RoleFrontDesk, "person", "read"},
	{constants.RoleFrontDesk, "person", "write"},
	{constants.RoleFrontDesk, "inconsistency", "read"},

	{constants.RoleDAM, "process", "read"},
	{constants.RoleDAM, "process", "write"},
	{constants.RoleDAM, "person", "read"},
	{constants.RoleDAM, "person", "write"},
	{constants.RoleDAM, "inconsistency", "read"},
	{constants.RoleDAM, "inconsistency", "apply"},
}

// InitSitePolicies seeds the role grant table. Re-running is harmless;
// AddPolicy skips rules that already exist.
func InitSitePolicies(e *Enforcer, log logger.Interface) error {
	enforcer := e.Raw()

	for _, policy := range sitePolicies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			log.Errorw("failed to add site policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
	}

	if err := enforcer.SavePolicy(); err != nil {
		return fmt.Errorf("failed to save site policies: %w", err)
	}

	log.Info("site policies initialized")
	return nil
}
