package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type ResourceModuleMappingRepo interface {
	Store[types.ResourceModuleMapping]
	AddRange(rows []*types.ResourceModuleMapping) []*types.ResourceModuleMapping
	DeleteRange(rows []*types.ResourceModuleMapping) []*types.ResourceModuleMapping
	GetByModuleID(ctx context.Context, moduleID uuid.UUID) ([]*types.ResourceModuleMapping, error)
	GetPair(ctx context.Context, resourceID, moduleID uuid.UUID) (*types.ResourceModuleMapping, error)
	DeleteByResourceID(resourceID uuid.UUID)
	DeleteByModuleID(moduleID uuid.UUID)
}

type resourceModuleMappingRepo struct {
	*store[types.ResourceModuleMapping]
}

func NewResourceModuleMappingRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) ResourceModuleMappingRepo {
	return &resourceModuleMappingRepo{store: newStore[types.ResourceModuleMapping](db, changes, baseLog.With("repo", "ResourceModuleMappingRepo"))}
}

func preloadMappedResource(db *gorm.DB) *gorm.DB {
	return db.Preload("Resource").Preload("Resource.Grade").Preload("Resource.Subject")
}

func (r *resourceModuleMappingRepo) AddRange(rows []*types.ResourceModuleMapping) []*types.ResourceModuleMapping {
	return r.addRange(rows)
}

func (r *resourceModuleMappingRepo) DeleteRange(rows []*types.ResourceModuleMapping) []*types.ResourceModuleMapping {
	return r.deleteRange(rows)
}

func (r *resourceModuleMappingRepo) GetAll(ctx context.Context) ([]*types.ResourceModuleMapping, error) {
	return r.Find(ctx, preloadMappedResource)
}

func (r *resourceModuleMappingRepo) GetByModuleID(ctx context.Context, moduleID uuid.UUID) ([]*types.ResourceModuleMapping, error) {
	return r.Find(ctx, preloadMappedResource, func(db *gorm.DB) *gorm.DB {
		return db.Where("learning_module_id = ?", moduleID).Order("created_at ASC")
	})
}

func (r *resourceModuleMappingRepo) GetPair(ctx context.Context, resourceID, moduleID uuid.UUID) (*types.ResourceModuleMapping, error) {
	rows, err := r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("resource_id = ? AND learning_module_id = ?", resourceID, moduleID).Limit(1)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *resourceModuleMappingRepo) DeleteByResourceID(resourceID uuid.UUID) {
	r.deleteWhere("resource_id = ?", resourceID)
}

func (r *resourceModuleMappingRepo) DeleteByModuleID(moduleID uuid.UUID) {
	r.deleteWhere("learning_module_id = ?", moduleID)
}
