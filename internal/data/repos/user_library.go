package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type UserResourceRepo interface {
	Store[types.UserResource]
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*types.UserResource, error)
	GetByUserAndResource(ctx context.Context, userID, resourceID uuid.UUID) (*types.UserResource, error)
	DeleteByResourceID(resourceID uuid.UUID)
}

type userResourceRepo struct {
	*store[types.UserResource]
}

func NewUserResourceRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) UserResourceRepo {
	return &userResourceRepo{store: newStore[types.UserResource](db, changes, baseLog.With("repo", "UserResourceRepo"))}
}

// GetByUser returns the user's saves, most recent first, with the saved
// resource attached.
func (r *userResourceRepo) GetByUser(ctx context.Context, userID uuid.UUID) ([]*types.UserResource, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Resource").Preload("Resource.Grade").Preload("Resource.Subject").
			Where("user_id = ?", userID).
			Order("created_at DESC")
	})
}

func (r *userResourceRepo) GetByUserAndResource(ctx context.Context, userID, resourceID uuid.UUID) (*types.UserResource, error) {
	rows, err := r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND resource_id = ?", userID, resourceID).Limit(1)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *userResourceRepo) DeleteByResourceID(resourceID uuid.UUID) {
	r.deleteWhere("resource_id = ?", resourceID)
}

type UserLearningModuleRepo interface {
	Store[types.UserLearningModule]
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*types.UserLearningModule, error)
	GetByUserAndModule(ctx context.Context, userID, moduleID uuid.UUID) (*types.UserLearningModule, error)
	DeleteByModuleID(moduleID uuid.UUID)
}

type userLearningModuleRepo struct {
	*store[types.UserLearningModule]
}

func NewUserLearningModuleRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) UserLearningModuleRepo {
	return &userLearningModuleRepo{store: newStore[types.UserLearningModule](db, changes, baseLog.With("repo", "UserLearningModuleRepo"))}
}

func (r *userLearningModuleRepo) GetByUser(ctx context.Context, userID uuid.UUID) ([]*types.UserLearningModule, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Preload("LearningModule").Preload("LearningModule.Grade").Preload("LearningModule.Subject").
			Where("user_id = ?", userID).
			Order("created_at DESC")
	})
}

func (r *userLearningModuleRepo) GetByUserAndModule(ctx context.Context, userID, moduleID uuid.UUID) (*types.UserLearningModule, error) {
	rows, err := r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND learning_module_id = ?", userID, moduleID).Limit(1)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *userLearningModuleRepo) DeleteByModuleID(moduleID uuid.UUID) {
	r.deleteWhere("learning_module_id = ?", moduleID)
}
