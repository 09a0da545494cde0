package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type TagRepo interface {
	Store[types.Tag]
	List(ctx context.Context) ([]*types.Tag, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Tag, error)
	GetByName(ctx context.Context, name string) ([]*types.Tag, error)
}

type tagRepo struct {
	*store[types.Tag]
}

func NewTagRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) TagRepo {
	return &tagRepo{store: newStore[types.Tag](db, changes, baseLog.With("repo", "TagRepo"))}
}

func (r *tagRepo) List(ctx context.Context) ([]*types.Tag, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("updated_at DESC").Order("tag_name ASC")
	})
}

func (r *tagRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Tag, error) {
	if len(ids) == 0 {
		return []*types.Tag{}, nil
	}
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN ?", ids)
	})
}

// GetByName matches case-insensitively so "Grade A" and "grade a" collide.
func (r *tagRepo) GetByName(ctx context.Context, name string) ([]*types.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return []*types.Tag{}, nil
	}
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(tag_name) = ?", name)
	})
}
