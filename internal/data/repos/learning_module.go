package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// LearningModuleDetail is one row of learning_module LEFT JOIN its votes or
// its resource mappings. Vote rows leave ResourceID invalid and mapping rows
// leave VoteUserID invalid.
type LearningModuleDetail struct {
	LearningModuleID uuid.UUID
	VoteUserID       uuid.NullUUID
	ResourceID       uuid.NullUUID
}

type LearningModuleRepo interface {
	Store[types.LearningModule]
	GetDetailed(ctx context.Context, id uuid.UUID) (*types.LearningModule, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.LearningModule, error)
	GetByTitle(ctx context.Context, title string) ([]*types.LearningModule, error)
	List(ctx context.Context, skip, count int) ([]*types.LearningModule, error)
	Search(ctx context.Context, filter Filter, skip, count int) ([]*types.LearningModule, error)
	SearchWithResources(ctx context.Context, filter Filter) ([]*types.LearningModule, error)
	GetWithVotesAndResources(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]LearningModuleDetail, error)
	ListCreatedBy(ctx context.Context, count int) ([]uuid.UUID, error)
}

type learningModuleRepo struct {
	*store[types.LearningModule]
}

func NewLearningModuleRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) LearningModuleRepo {
	return &learningModuleRepo{store: newStore[types.LearningModule](db, changes, baseLog.With("repo", "LearningModuleRepo"))}
}

func (r *learningModuleRepo) GetDetailed(ctx context.Context, id uuid.UUID) (*types.LearningModule, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *learningModuleRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.LearningModule, error) {
	if len(ids) == 0 {
		return []*types.LearningModule{}, nil
	}
	return r.Find(ctx, withGradeAndSubject, func(db *gorm.DB) *gorm.DB {
		return db.Where("learning_module.id IN ?", ids)
	}, newestFirst(learningModuleTable))
}

func (r *learningModuleRepo) GetByTitle(ctx context.Context, title string) ([]*types.LearningModule, error) {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return []*types.LearningModule{}, nil
	}
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(title) = ?", title)
	})
}

func (r *learningModuleRepo) List(ctx context.Context, skip, count int) ([]*types.LearningModule, error) {
	return r.Find(ctx, withGradeAndSubject, newestFirst(learningModuleTable), paginate(skip, count))
}

func (r *learningModuleRepo) Search(ctx context.Context, filter Filter, skip, count int) ([]*types.LearningModule, error) {
	return r.Find(ctx,
		withGradeAndSubject,
		filterScope(learningModuleTable, filter),
		newestFirst(learningModuleTable),
		paginate(skip, count),
	)
}

// SearchWithResources returns only modules that own at least one resource.
// Only grade and subject filters apply and the result is not paginated.
func (r *learningModuleRepo) SearchWithResources(ctx context.Context, filter Filter) ([]*types.LearningModule, error) {
	return r.Find(ctx, withGradeAndSubject, func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("resource_module_mapping").
			Select("learning_module_id")
		db = db.Where("learning_module.id IN (?)", sub)
		if len(filter.GradeIDs) > 0 {
			db = db.Where("learning_module.grade_id IN ?", filter.GradeIDs)
		}
		if len(filter.SubjectIDs) > 0 {
			db = db.Where("learning_module.subject_id IN ?", filter.SubjectIDs)
		}
		return db
	}, newestFirst(learningModuleTable))
}

func (r *learningModuleRepo) GetWithVotesAndResources(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]LearningModuleDetail, error) {
	out := map[uuid.UUID][]LearningModuleDetail{}
	if len(ids) == 0 {
		return out, nil
	}
	var votes []LearningModuleDetail
	err := r.db.WithContext(ctx).
		Table("learning_module").
		Select("learning_module.id AS learning_module_id, learning_module_vote.user_id AS vote_user_id").
		Joins("LEFT JOIN learning_module_vote ON learning_module_vote.learning_module_id = learning_module.id").
		Where("learning_module.id IN ?", ids).
		Scan(&votes).Error
	if err != nil {
		return nil, err
	}
	var mappings []LearningModuleDetail
	err = r.db.WithContext(ctx).
		Table("learning_module").
		Select("learning_module.id AS learning_module_id, resource_module_mapping.resource_id AS resource_id").
		Joins("LEFT JOIN resource_module_mapping ON resource_module_mapping.learning_module_id = learning_module.id").
		Where("learning_module.id IN ?", ids).
		Scan(&mappings).Error
	if err != nil {
		return nil, err
	}
	for _, row := range append(votes, mappings...) {
		out[row.LearningModuleID] = append(out[row.LearningModuleID], row)
	}
	return out, nil
}

// ListCreatedBy returns distinct creator ids ordered by id, so a cap keeps an
// arbitrary subset rather than the most recent authors.
func (r *learningModuleRepo) ListCreatedBy(ctx context.Context, count int) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	q := r.db.WithContext(ctx).Model(&types.LearningModule{}).Distinct().Order("created_by")
	if count > 0 {
		q = q.Limit(count)
	}
	if err := q.Pluck("created_by", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LearningModuleSummary aggregates one module's detail rows.
type LearningModuleSummary struct {
	VoteSummary
	ResourceCount int
}

func SummarizeLearningModule(rows []LearningModuleDetail, userID uuid.UUID) LearningModuleSummary {
	var s LearningModuleSummary
	seen := map[uuid.UUID]struct{}{}
	for _, row := range rows {
		if row.VoteUserID.Valid {
			s.Count++
			if row.VoteUserID.UUID == userID {
				s.VotedByUser = true
			}
		}
		if row.ResourceID.Valid {
			if _, ok := seen[row.ResourceID.UUID]; !ok {
				seen[row.ResourceID.UUID] = struct{}{}
				s.ResourceCount++
			}
		}
	}
	return s
}
