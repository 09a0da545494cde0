package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type SubjectRepo interface {
	Store[types.Subject]
	List(ctx context.Context) ([]*types.Subject, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Subject, error)
	GetByName(ctx context.Context, name string) ([]*types.Subject, error)
}

type subjectRepo struct {
	*store[types.Subject]
}

func NewSubjectRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{store: newStore[types.Subject](db, changes, baseLog.With("repo", "SubjectRepo"))}
}

func (r *subjectRepo) List(ctx context.Context) ([]*types.Subject, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("updated_at DESC").Order("subject_name ASC")
	})
}

func (r *subjectRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Subject, error) {
	if len(ids) == 0 {
		return []*types.Subject{}, nil
	}
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN ?", ids)
	})
}

// GetByName matches case-insensitively so "Grade A" and "grade a" collide.
func (r *subjectRepo) GetByName(ctx context.Context, name string) ([]*types.Subject, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return []*types.Subject{}, nil
	}
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(subject_name) = ?", name)
	})
}
