package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valeri-app/valeri/internal/models"
	pgrepo "github.com/valeri-app/valeri/internal/repositories/postgres"
	"github.com/valeri-app/valeri/internal/utils"
)

// RolePolicy decides which identities bootstrap as admins. Backed by the
// allow-list loaded from configuration at process start.
type RolePolicy interface {
	IsAdminEmail(email string) bool
}

type BootstrapService interface {
	// EnsureProfile adopts the existing profile for the identity, or lazily
	// creates one. An existing profile is returned as-is, with zero writes.
	EnsureProfile(ctx context.Context, user *models.User) (*models.Profile, error)
}

type bootstrapService struct {
	profiles pgrepo.ProfileRepository
	policy   RolePolicy
	log      *logrus.Logger
}

func NewBootstrapService(profiles pgrepo.ProfileRepository, policy RolePolicy, log *logrus.Logger) BootstrapService {
	return &bootstrapService{profiles: profiles, policy: policy, log: log}
}

func (s *bootstrapService) EnsureProfile(ctx context.Context, user *models.User) (*models.Profile, error) {
	const op = "BootstrapService.EnsureProfile"

	if user == nil || user.ID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user is required", nil)
	}

	existing, err := s.profiles.GetByUserID(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to read profile", err)
	}

	role := models.RoleUser
	if s.policy.IsAdminEmail(user.Email) {
		role = models.RoleAdmin
	}

	now := time.Now().UTC()
	p := &models.Profile{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.profiles.CreateIfAbsent(ctx, p)
	if err != nil {
		// best-effort: the in-memory profile still carries the computed role
		s.log.WithError(err).WithField("user_id", user.ID).
			Warn("profile bootstrap insert failed")
		return p, nil
	}
	if !created {
		// lost the bootstrap race; adopt whichever row won
		if winner, err := s.profiles.GetByUserID(ctx, user.ID); err == nil {
			return winner, nil
		}
	}
	return p, nil
}
