package postgres

import (
	"context"

	"github.com/valeri-app/valeri/internal/models"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, p *models.Post) error
	ListNewestFirst(ctx context.Context) ([]models.Post, error)
}

type postRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) Create(ctx context.Context, p *models.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepo) ListNewestFirst(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
