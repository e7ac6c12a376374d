package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/valeri-app/valeri/internal/authx"
	"github.com/valeri-app/valeri/internal/cache"
	"github.com/valeri-app/valeri/internal/models"
	mongorepo "github.com/valeri-app/valeri/internal/repositories/mongo"
	pgrepo "github.com/valeri-app/valeri/internal/repositories/postgres"
	"github.com/valeri-app/valeri/internal/utils"
)

// RoleCacheKey is the cache key holding a user's verified role.
func RoleCacheKey(userID string) string { return "role:" + userID }

type AdminService interface {
	ListUsers(ctx context.Context) ([]models.Profile, error)
	// DeleteUser removes the identity from the auth provider, then the
	// profile row. Identity deletion failure aborts; profile deletion
	// failure is logged and tolerated.
	DeleteUser(ctx context.Context, actorID, targetID string) error
	ListAudit(ctx context.Context, limit int64) ([]models.AuditEntry, error)
}

type adminService struct {
	profiles pgrepo.ProfileRepository
	auth     authx.Provider
	audit    mongorepo.AuditRepository
	roles    cache.Cache
	log      *logrus.Logger
}

func NewAdminService(
	profiles pgrepo.ProfileRepository,
	auth authx.Provider,
	audit mongorepo.AuditRepository,
	roles cache.Cache,
	log *logrus.Logger,
) AdminService {
	return &adminService{profiles: profiles, auth: auth, audit: audit, roles: roles, log: log}
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	const op = "AdminService.ListUsers"

	out, err := s.profiles.ListOrderedByEmail(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	return out, nil
}

func (s *adminService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	const op = "AdminService.DeleteUser"

	if targetID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "User ID required", nil)
	}

	target, err := s.profiles.GetByUserID(ctx, targetID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeInternal, op, "failed to load target profile", err)
	}
	if target.IsAdmin() {
		e := utils.E(utils.CodeForbidden, op, "cannot delete an admin user", nil)
		s.recordAudit(ctx, actorID, targetID, false, e)
		return e
	}

	// identity first; if this fails the profile row must stay untouched
	if err := s.auth.AdminDeleteUser(ctx, targetID); err != nil {
		s.recordAudit(ctx, actorID, targetID, false, err)
		if utils.IsCode(err, utils.CodeNotFound) {
			return utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete auth user", err)
	}

	if err := s.profiles.Delete(ctx, targetID); err != nil {
		// identity is gone; the surviving profile row is tolerated
		s.log.WithError(err).WithField("user_id", targetID).
			Error("profile delete failed after identity removal")
	}

	if s.roles != nil {
		if err := s.roles.Del(ctx, RoleCacheKey(targetID)); err != nil {
			s.log.WithError(err).Warn("role cache invalidation failed")
		}
	}

	s.recordAudit(ctx, actorID, targetID, true, nil)
	return nil
}

func (s *adminService) ListAudit(ctx context.Context, limit int64) ([]models.AuditEntry, error) {
	const op = "AdminService.ListAudit"

	out, err := s.audit.ListRecent(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list audit entries", err)
	}
	return out, nil
}

func (s *adminService) recordAudit(ctx context.Context, actorID, targetID string, success bool, cause error) {
	if s.audit == nil {
		return
	}
	e := &models.AuditEntry{
		ActorID:  actorID,
		Action:   models.AuditActionDeleteUser,
		TargetID: targetID,
		Success:  success,
	}
	if cause != nil {
		e.Error = cause.Error()
	}
	if err := s.audit.Insert(ctx, e); err != nil {
		s.log.WithError(err).Warn("audit write failed")
	}
}
