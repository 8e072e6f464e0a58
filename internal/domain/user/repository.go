package user

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"blog-server-go/internal/domain/model"
	"blog-server-go/internal/platform/errors"
)

// Repository is the credential store: account lookups on unique fields
// plus create/update with conflict detection.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID returns nil without error when no account matches.
func (r *Repository) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "find_by_id",
			"failed to look up account", err)
	}
	return &account, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "find_by_username",
			"failed to look up account", err)
	}
	return &account, nil
}

func (r *Repository) FindByGoogleID(ctx context.Context, googleID string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&account).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "find_by_google_id",
			"failed to look up account", err)
	}
	return &account, nil
}

// FindByEmailOrGoogleID backs federated reconciliation: a match on either
// field claims the same local account.
func (r *Repository) FindByEmailOrGoogleID(ctx context.Context, email, googleID string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("email = ? OR google_id = ?", email, googleID).
		First(&account).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "find_by_email_or_google_id",
			"failed to look up account", err)
	}
	return &account, nil
}

func (r *Repository) Create(ctx context.Context, account *model.Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.New(errors.KindConflict, "create",
				"user with the given username already exists")
		}
		return errors.Wrap(errors.KindStorage, "create",
			"failed to create account", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Account{}, id).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "delete",
			"failed to delete account", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, account *model.Account) error {
	err := r.db.WithContext(ctx).Save(account).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.New(errors.KindConflict, "update",
				"username or email already in use")
		}
		return errors.Wrap(errors.KindStorage, "update",
			"failed to update account", err)
	}
	return nil
}
