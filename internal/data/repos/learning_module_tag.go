package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type LearningModuleTagRepo interface {
	Store[types.LearningModuleTag]
	AddRange(rows []*types.LearningModuleTag) []*types.LearningModuleTag
	DeleteRange(rows []*types.LearningModuleTag) []*types.LearningModuleTag
	GetByModuleIDs(ctx context.Context, moduleIDs []uuid.UUID) ([]*types.LearningModuleTag, error)
	DeleteByModuleID(moduleID uuid.UUID)
}

type learningModuleTagRepo struct {
	*store[types.LearningModuleTag]
}

func NewLearningModuleTagRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) LearningModuleTagRepo {
	return &learningModuleTagRepo{store: newStore[types.LearningModuleTag](db, changes, baseLog.With("repo", "LearningModuleTagRepo"))}
}

func (r *learningModuleTagRepo) AddRange(rows []*types.LearningModuleTag) []*types.LearningModuleTag {
	return r.addRange(rows)
}

func (r *learningModuleTagRepo) DeleteRange(rows []*types.LearningModuleTag) []*types.LearningModuleTag {
	return r.deleteRange(rows)
}

func (r *learningModuleTagRepo) GetAll(ctx context.Context) ([]*types.LearningModuleTag, error) {
	return r.Find(ctx, preloadTag)
}

func (r *learningModuleTagRepo) GetByModuleIDs(ctx context.Context, moduleIDs []uuid.UUID) ([]*types.LearningModuleTag, error) {
	if len(moduleIDs) == 0 {
		return []*types.LearningModuleTag{}, nil
	}
	return r.Find(ctx, preloadTag, func(db *gorm.DB) *gorm.DB {
		return db.Where("learning_module_id IN ?", moduleIDs)
	})
}

func (r *learningModuleTagRepo) DeleteByModuleID(moduleID uuid.UUID) {
	r.deleteWhere("learning_module_id = ?", moduleID)
}
