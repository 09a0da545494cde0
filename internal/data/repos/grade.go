package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type GradeRepo interface {
	Store[types.Grade]
	List(ctx context.Context) ([]*types.Grade, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Grade, error)
	GetByName(ctx context.Context, name string) ([]*types.Grade, error)
}

type gradeRepo struct {
	*store[types.Grade]
}

func NewGradeRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) GradeRepo {
	return &gradeRepo{store: newStore[types.Grade](db, changes, baseLog.With("repo", "GradeRepo"))}
}

func (r *gradeRepo) List(ctx context.Context) ([]*types.Grade, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("updated_at DESC").Order("grade_name ASC")
	})
}

func (r *gradeRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Grade, error) {
	if len(ids) == 0 {
		return []*types.Grade{}, nil
	}
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN ?", ids)
	})
}

// GetByName matches case-insensitively so "Grade A" and "grade a" collide.
func (r *gradeRepo) GetByName(ctx context.Context, name string) ([]*types.Grade, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return []*types.Grade{}, nil
	}
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(grade_name) = ?", name)
	})
}
