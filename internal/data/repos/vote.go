package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type ResourceVoteRepo interface {
	Store[types.ResourceVote]
	GetByResourceAndUser(ctx context.Context, resourceID, userID uuid.UUID) (*types.ResourceVote, error)
	DeleteByResourceID(resourceID uuid.UUID)
}

type resourceVoteRepo struct {
	*store[types.ResourceVote]
}

func NewResourceVoteRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) ResourceVoteRepo {
	return &resourceVoteRepo{store: newStore[types.ResourceVote](db, changes, baseLog.With("repo", "ResourceVoteRepo"))}
}

func (r *resourceVoteRepo) GetByResourceAndUser(ctx context.Context, resourceID, userID uuid.UUID) (*types.ResourceVote, error) {
	rows, err := r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("resource_id = ? AND user_id = ?", resourceID, userID).Limit(1)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *resourceVoteRepo) DeleteByResourceID(resourceID uuid.UUID) {
	r.deleteWhere("resource_id = ?", resourceID)
}

type LearningModuleVoteRepo interface {
	Store[types.LearningModuleVote]
	GetByModuleAndUser(ctx context.Context, moduleID, userID uuid.UUID) (*types.LearningModuleVote, error)
	DeleteByModuleID(moduleID uuid.UUID)
}

type learningModuleVoteRepo struct {
	*store[types.LearningModuleVote]
}

func NewLearningModuleVoteRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) LearningModuleVoteRepo {
	return &learningModuleVoteRepo{store: newStore[types.LearningModuleVote](db, changes, baseLog.With("repo", "LearningModuleVoteRepo"))}
}

func (r *learningModuleVoteRepo) GetByModuleAndUser(ctx context.Context, moduleID, userID uuid.UUID) (*types.LearningModuleVote, error) {
	rows, err := r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("learning_module_id = ? AND user_id = ?", moduleID, userID).Limit(1)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *learningModuleVoteRepo) DeleteByModuleID(moduleID uuid.UUID) {
	r.deleteWhere("learning_module_id = ?", moduleID)
}
