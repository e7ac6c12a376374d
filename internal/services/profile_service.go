package services

import (
	"context"
	"errors"
	"time"

	"github.com/valeri-app/valeri/internal/models"
	pgrepo "github.com/valeri-app/valeri/internal/repositories/postgres"
	"github.com/valeri-app/valeri/internal/utils"
	"gorm.io/datatypes"
)

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	UpdateFullName(ctx context.Context, userID, fullName string) error
	// UpdateProfile sets full name and birth date. An empty birthDate clears
	// the column.
	UpdateProfile(ctx context.Context, userID, fullName, birthDate string) error
}

type profileService struct {
	profiles pgrepo.ProfileRepository
}

func NewProfileService(profiles pgrepo.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *profileService) UpdateFullName(ctx context.Context, userID, fullName string) error {
	const op = "ProfileService.UpdateFullName"

	if userID == "" {
		return utils.E(utils.CodeUnauthorized, op, "Unauthorized", nil)
	}
	return s.update(ctx, op, userID, map[string]any{
		"full_name":  fullName,
		"updated_at": time.Now().UTC(),
	})
}

func (s *profileService) UpdateProfile(ctx context.Context, userID, fullName, birthDate string) error {
	const op = "ProfileService.UpdateProfile"

	if userID == "" {
		return utils.E(utils.CodeUnauthorized, op, "Unauthorized", nil)
	}

	fields := map[string]any{
		"full_name":  fullName,
		"updated_at": time.Now().UTC(),
	}
	if birthDate == "" {
		fields["birth_date"] = nil
	} else {
		t, err := time.Parse("2006-01-02", birthDate)
		if err != nil {
			return utils.E(utils.CodeInvalidArgument, op, "invalid birth date", err)
		}
		fields["birth_date"] = datatypes.Date(t)
	}
	return s.update(ctx, op, userID, fields)
}

func (s *profileService) update(ctx context.Context, op, userID string, fields map[string]any) error {
	if err := s.profiles.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}
	return nil
}
