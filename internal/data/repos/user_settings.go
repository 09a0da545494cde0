package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type UserSettingsRepo interface {
	Store[types.UserSettings]
	GetByUserID(ctx context.Context, userID uuid.UUID) (*types.UserSettings, error)
}

type userSettingsRepo struct {
	*store[types.UserSettings]
}

func NewUserSettingsRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) UserSettingsRepo {
	return &userSettingsRepo{store: newStore[types.UserSettings](db, changes, baseLog.With("repo", "UserSettingsRepo"))}
}

// GetByUserID returns nil when the user has never saved settings.
func (r *userSettingsRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*types.UserSettings, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	rows, err := r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID).Limit(1)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}
