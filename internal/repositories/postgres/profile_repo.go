package postgres

import (
	"context"
	"errors"

	"github.com/valeri-app/valeri/internal/models"
	"github.com/valeri-app/valeri/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// CreateIfAbsent inserts the profile unless a row with the same id
	// already exists. Reports whether a row was written.
	CreateIfAbsent(ctx context.Context, p *models.Profile) (created bool, err error)
	UpdateFields(ctx context.Context, userID string, fields map[string]any) error
	ListOrderedByEmail(ctx context.Context) ([]models.Profile, error)
	Delete(ctx context.Context, userID string) error
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *profileRepo) CreateIfAbsent(ctx context.Context, p *models.Profile) (bool, error) {
	// ON CONFLICT DO NOTHING keyed on id collapses concurrent bootstrap
	// attempts for the same identity into a single row.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(p)
	return res.RowsAffected > 0, res.Error
}

func (r *profileRepo) UpdateFields(ctx context.Context, userID string, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *profileRepo) ListOrderedByEmail(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	err := r.db.WithContext(ctx).
		Order("email asc").
		Find(&out).Error
	return out, err
}

func (r *profileRepo) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", userID).
		Delete(&models.Profile{}).Error
}
