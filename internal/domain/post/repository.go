package post

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"blog-server-go/internal/domain/model"
	"blog-server-go/internal/platform/errors"
)

// Repository persists posts and their likes.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "create", "failed to create post", err)
	}
	return nil
}

// List returns a page of posts, newest first, with authors preloaded.
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]model.Post, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "list", "failed to list posts", err)
	}
	return posts, nil
}

func (r *Repository) Get(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "get", "failed to look up post", err)
	}
	return &post, nil
}

func (r *Repository) Update(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "update", "failed to update post", err)
	}
	return nil
}

// Delete removes the post with its comments and likes.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
	if err != nil {
		return errors.Wrap(errors.KindStorage, "delete", "failed to delete post", err)
	}
	return nil
}

// ToggleLike flips the (post, account) like and reports the new state.
func (r *Repository) ToggleLike(ctx context.Context, postID, accountID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Like
		err := tx.Where("post_id = ? AND account_id = ?", postID, accountID).
			First(&existing).Error
		switch {
		case err == nil:
			liked = false
			return tx.Delete(&existing).Error
		case stderrors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			return tx.Create(&model.Like{PostID: postID, AccountID: accountID}).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, errors.Wrap(errors.KindStorage, "toggle_like",
			"failed to toggle like", err)
	}
	return liked, nil
}

// Likes returns the like count and whether the given account liked the
// post. accountID zero means an anonymous caller.
func (r *Repository) Likes(ctx context.Context, postID, accountID uint) (int64, bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, false, errors.Wrap(errors.KindStorage, "likes",
			"failed to count likes", err)
	}

	liked := false
	if accountID != 0 {
		var mine int64
		err = r.db.WithContext(ctx).Model(&model.Like{}).
			Where("post_id = ? AND account_id = ?", postID, accountID).
			Count(&mine).Error
		if err != nil {
			return 0, false, errors.Wrap(errors.KindStorage, "likes",
				"failed to check like", err)
		}
		liked = mine > 0
	}
	return count, liked, nil
}
