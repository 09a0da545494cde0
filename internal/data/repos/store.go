package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// Scope narrows a query. It is the predicate form accepted by Find.
type Scope = func(*gorm.DB) *gorm.DB

// Store is the data-access contract shared by every entity. Add, Update and
// Delete only stage a change; nothing reaches the database until the owning
// UnitOfWork commits. Reads always go to the database.
type Store[T any] interface {
	Add(entity *T) *T
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	GetAll(ctx context.Context) ([]*T, error)
	Update(entity *T) *T
	Delete(entity *T) *T
	Find(ctx context.Context, scopes ...Scope) ([]*T, error)
}

type idAssigner interface {
	EnsureID()
}

type store[T any] struct {
	db      *gorm.DB
	changes *changeSet
	log     *logger.Logger
}

func newStore[T any](db *gorm.DB, changes *changeSet, log *logger.Logger) *store[T] {
	return &store[T]{db: db, changes: changes, log: log}
}

func (s *store[T]) Add(entity *T) *T {
	if entity == nil {
		return nil
	}
	if a, ok := any(entity).(idAssigner); ok {
		a.EnsureID()
	}
	s.changes.stage(changeAdd, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
	return entity
}

func (s *store[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*T
	if err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (s *store[T]) GetAll(ctx context.Context) ([]*T, error) {
	return s.Find(ctx)
}

func (s *store[T]) Update(entity *T) *T {
	if entity == nil {
		return nil
	}
	s.changes.stage(changeUpdate, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(entity).Error
	})
	return entity
}

func (s *store[T]) Delete(entity *T) *T {
	if entity == nil {
		return nil
	}
	s.changes.stage(changeDelete, func(tx *gorm.DB) error {
		return tx.Delete(entity).Error
	})
	return entity
}

func (s *store[T]) Find(ctx context.Context, scopes ...Scope) ([]*T, error) {
	out := []*T{}
	if err := s.db.WithContext(ctx).Scopes(scopes...).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// addRange stages one batched insert for rows; empty input stages nothing.
func (s *store[T]) addRange(rows []*T) []*T {
	if len(rows) == 0 {
		return rows
	}
	for _, row := range rows {
		if a, ok := any(row).(idAssigner); ok {
			a.EnsureID()
		}
	}
	s.changes.stage(changeAdd, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
	return rows
}

func (s *store[T]) deleteRange(rows []*T) []*T {
	for _, row := range rows {
		s.Delete(row)
	}
	return rows
}

// deleteWhere stages a bulk delete of every row matching query.
func (s *store[T]) deleteWhere(query string, args ...interface{}) {
	s.changes.stage(changeDelete, func(tx *gorm.DB) error {
		var zero T
		return tx.Where(query, args...).Delete(&zero).Error
	})
}

// paginate applies skip/count last so it composes with any prior scope.
func paginate(skip, count int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if skip > 0 {
			db = db.Offset(skip)
		}
		if count > 0 {
			db = db.Limit(count)
		}
		return db
	}
}
