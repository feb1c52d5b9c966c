package permission

import (
	"context"
	"fmt"

	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/constants"
	"nmqueue/internal/shared/logger"
)

// RoleSync mirrors manager flags into casbin role assignments. The ams table
// is authoritative; casbin only caches the derived roles for route gating.
type RoleSync struct {
	amRepo   process.AMRepository
	enforcer *Enforcer
	logger   logger.Interface
}

func NewRoleSync(amRepo process.AMRepository, enforcer *Enforcer, log logger.Interface) *RoleSync {
	return &RoleSync{
		amRepo:   amRepo,
		enforcer: enforcer,
		logger:   log.Named("rolesync"),
	}
}

// Subject is the casbin subject string for a person.
func Subject(personID uint) string {
	return fmt.Sprintf("person:%d", personID)
}

// Sync rewrites every manager's role set from the current flags. Called at
// startup and after any flag change.
func (s *RoleSync) Sync(ctx context.Context) error {
	ams, err := s.amRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list manager records: %w", err)
	}

	for _, am := range ams {
		if err := s.apply(am); err != nil {
			return err
		}
	}

	s.logger.Infow("roles synced", "manager_records", len(ams))
	return nil
}

// SyncOne rewrites one manager's role assignments.
func (s *RoleSync) SyncOne(ctx context.Context, personID uint) error {
	am, err := s.amRepo.GetByPersonID(ctx, personID)
	if err != nil {
		return fmt.Errorf("failed to load manager record: %w", err)
	}
	if am == nil {
		return s.enforcer.DeleteRolesForUser(Subject(personID))
	}
	return s.apply(am)
}

func (s *RoleSync) apply(am *process.AM) error {
	subject := Subject(am.PersonID())

	if err := s.enforcer.DeleteRolesForUser(subject); err != nil {
		return err
	}

	var roles []string
	if am.IsAM() {
		roles = append(roles, constants.RoleAM)
	}
	if am.IsFD() {
		roles = append(roles, constants.RoleFrontDesk)
	}
	if am.IsDAM() {
		roles = append(roles, constants.RoleDAM)
	}

	for _, role := range roles {
		if err := s.enforcer.AddRoleForUser(subject, role); err != nil {
			return err
		}
	}

	return nil
}
