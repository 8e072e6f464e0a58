package comment

import (
	"context"

	"gorm.io/gorm"

	"blog-server-go/internal/domain/model"
	"blog-server-go/internal/platform/errors"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "create",
			"failed to create comment", err)
	}
	// Reload with the author for the response payload.
	err := r.db.WithContext(ctx).Preload("Author").
		First(comment, comment.ID).Error
	if err != nil {
		return errors.Wrap(errors.KindStorage, "create",
			"failed to load created comment", err)
	}
	return nil
}

// ListByPost returns a post's comments, newest first, authors preloaded.
func (r *Repository) ListByPost(ctx context.Context, postID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("updated_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "list_by_post",
			"failed to list comments", err)
	}
	return comments, nil
}
