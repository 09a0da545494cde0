package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type ResourceTagRepo interface {
	Store[types.ResourceTag]
	AddRange(rows []*types.ResourceTag) []*types.ResourceTag
	DeleteRange(rows []*types.ResourceTag) []*types.ResourceTag
	GetByResourceIDs(ctx context.Context, resourceIDs []uuid.UUID) ([]*types.ResourceTag, error)
	DeleteByResourceID(resourceID uuid.UUID)
}

type resourceTagRepo struct {
	*store[types.ResourceTag]
}

func NewResourceTagRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) ResourceTagRepo {
	return &resourceTagRepo{store: newStore[types.ResourceTag](db, changes, baseLog.With("repo", "ResourceTagRepo"))}
}

func preloadTag(db *gorm.DB) *gorm.DB {
	return db.Preload("Tag")
}

func (r *resourceTagRepo) AddRange(rows []*types.ResourceTag) []*types.ResourceTag {
	return r.addRange(rows)
}

func (r *resourceTagRepo) DeleteRange(rows []*types.ResourceTag) []*types.ResourceTag {
	return r.deleteRange(rows)
}

// GetAll always carries the related tag.
func (r *resourceTagRepo) GetAll(ctx context.Context) ([]*types.ResourceTag, error) {
	return r.Find(ctx, preloadTag)
}

func (r *resourceTagRepo) GetByResourceIDs(ctx context.Context, resourceIDs []uuid.UUID) ([]*types.ResourceTag, error) {
	if len(resourceIDs) == 0 {
		return []*types.ResourceTag{}, nil
	}
	return r.Find(ctx, preloadTag, func(db *gorm.DB) *gorm.DB {
		return db.Where("resource_id IN ?", resourceIDs)
	})
}

func (r *resourceTagRepo) DeleteByResourceID(resourceID uuid.UUID) {
	r.deleteWhere("resource_id = ?", resourceID)
}
