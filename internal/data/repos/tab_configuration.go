package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type TabConfigurationRepo interface {
	Store[types.TabConfiguration]
	GetDetailed(ctx context.Context, id uuid.UUID) (*types.TabConfiguration, error)
	GetByTabAndGroup(ctx context.Context, tabID, groupID string) (*types.TabConfiguration, error)
	DeleteByModuleID(moduleID uuid.UUID)
}

type tabConfigurationRepo struct {
	*store[types.TabConfiguration]
}

func NewTabConfigurationRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) TabConfigurationRepo {
	return &tabConfigurationRepo{store: newStore[types.TabConfiguration](db, changes, baseLog.With("repo", "TabConfigurationRepo"))}
}

func preloadPinnedModule(db *gorm.DB) *gorm.DB {
	return db.Preload("LearningModule").Preload("LearningModule.Grade").Preload("LearningModule.Subject")
}

func (r *tabConfigurationRepo) GetDetailed(ctx context.Context, id uuid.UUID) (*types.TabConfiguration, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.Find(ctx, preloadPinnedModule, func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id).Limit(1)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *tabConfigurationRepo) GetByTabAndGroup(ctx context.Context, tabID, groupID string) (*types.TabConfiguration, error) {
	tabID, groupID = strings.TrimSpace(tabID), strings.TrimSpace(groupID)
	if tabID == "" || groupID == "" {
		return nil, nil
	}
	rows, err := r.Find(ctx, preloadPinnedModule, func(db *gorm.DB) *gorm.DB {
		return db.Where("tab_id = ? AND group_id = ?", tabID, groupID).Limit(1)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *tabConfigurationRepo) DeleteByModuleID(moduleID uuid.UUID) {
	r.deleteWhere("learning_module_id = ?", moduleID)
}
