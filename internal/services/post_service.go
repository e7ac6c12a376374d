package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/valeri-app/valeri/internal/models"
	pgrepo "github.com/valeri-app/valeri/internal/repositories/postgres"
	"github.com/valeri-app/valeri/internal/storage"
	"github.com/valeri-app/valeri/internal/utils"
)

// ImageUpload is a validated image stream headed for the posts bucket.
type ImageUpload struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

type PostService interface {
	List(ctx context.Context) ([]models.Post, error)
	Create(ctx context.Context, userID, title, content string, image *ImageUpload) (*models.Post, error)
}

type postService struct {
	posts    pgrepo.PostRepository
	uploader storage.Uploader
}

func NewPostService(posts pgrepo.PostRepository, uploader storage.Uploader) PostService {
	return &postService{posts: posts, uploader: uploader}
}

func (s *postService) List(ctx context.Context) ([]models.Post, error) {
	const op = "PostService.List"

	out, err := s.posts.ListNewestFirst(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list posts", err)
	}
	return out, nil
}

func (s *postService) Create(ctx context.Context, userID, title, content string, image *ImageUpload) (*models.Post, error) {
	const op = "PostService.Create"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "Unauthorized", nil)
	}
	if title == "" || content == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title and content are required", nil)
	}

	var imageURL *string
	if image != nil {
		if s.uploader == nil {
			return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
		}
		objectName := "user-" + userID + "/" + uuid.NewString() + "-" + image.FileName
		url, err := s.uploader.Upload(ctx, objectName, image.ContentType, image.Reader)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to upload image", err)
		}
		imageURL = &url
	}

	p := &models.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create post", err)
	}
	return p, nil
}
