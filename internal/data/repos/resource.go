package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// ResourceVoteDetail is one row of resource LEFT JOIN resource_vote. A
// resource without votes yields a single row with an invalid VoteUserID.
type ResourceVoteDetail struct {
	ResourceID uuid.UUID
	VoteID     uuid.NullUUID
	VoteUserID uuid.NullUUID
}

type ResourceRepo interface {
	Store[types.Resource]
	GetDetailed(ctx context.Context, id uuid.UUID) (*types.Resource, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Resource, error)
	GetByTitle(ctx context.Context, title string) ([]*types.Resource, error)
	List(ctx context.Context, skip, count int) ([]*types.Resource, error)
	Search(ctx context.Context, filter Filter, skip, count int) ([]*types.Resource, error)
	GetWithVotes(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]ResourceVoteDetail, error)
	ListCreatedBy(ctx context.Context, count int) ([]uuid.UUID, error)
}

type resourceRepo struct {
	*store[types.Resource]
}

func NewResourceRepo(db *gorm.DB, changes *changeSet, baseLog *logger.Logger) ResourceRepo {
	return &resourceRepo{store: newStore[types.Resource](db, changes, baseLog.With("repo", "ResourceRepo"))}
}

func withGradeAndSubject(db *gorm.DB) *gorm.DB {
	return db.Preload("Grade").Preload("Subject")
}

func (r *resourceRepo) GetDetailed(ctx context.Context, id uuid.UUID) (*types.Resource, error) {
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

func (r *resourceRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Resource, error) {
	if len(ids) == 0 {
		return []*types.Resource{}, nil
	}
	return r.Find(ctx, withGradeAndSubject, func(db *gorm.DB) *gorm.DB {
		return db.Where("resource.id IN ?", ids)
	}, newestFirst(resourceTable))
}

func (r *resourceRepo) GetByTitle(ctx context.Context, title string) ([]*types.Resource, error) {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return []*types.Resource{}, nil
	}
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(title) = ?", title)
	})
}

func (r *resourceRepo) List(ctx context.Context, skip, count int) ([]*types.Resource, error) {
	return r.Find(ctx, withGradeAndSubject, newestFirst(resourceTable), paginate(skip, count))
}

func (r *resourceRepo) Search(ctx context.Context, filter Filter, skip, count int) ([]*types.Resource, error) {
	return r.Find(ctx,
		withGradeAndSubject,
		filterScope(resourceTable, filter),
		newestFirst(resourceTable),
		paginate(skip, count),
	)
}

func (r *resourceRepo) GetWithVotes(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]ResourceVoteDetail, error) {
	out := map[uuid.UUID][]ResourceVoteDetail{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []ResourceVoteDetail
	err := r.db.WithContext(ctx).
		Table("resource").
		Select("resource.id AS resource_id, resource_vote.id AS vote_id, resource_vote.user_id AS vote_user_id").
		Joins("LEFT JOIN resource_vote ON resource_vote.resource_id = resource.id").
		Where("resource.id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ResourceID] = append(out[row.ResourceID], row)
	}
	return out, nil
}

// ListCreatedBy returns distinct creator ids ordered by id, so a cap keeps an
// arbitrary subset rather than the most recent authors.
func (r *resourceRepo) ListCreatedBy(ctx context.Context, count int) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	q := r.db.WithContext(ctx).Model(&types.Resource{}).Distinct().Order("created_by")
	if count > 0 {
		q = q.Limit(count)
	}
	if err := q.Pluck("created_by", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SummarizeResourceVotes derives the vote count and whether userID voted
// from one resource's detail rows.
func SummarizeResourceVotes(rows []ResourceVoteDetail, userID uuid.UUID) VoteSummary {
	var s VoteSummary
	for _, row := range rows {
		if !row.VoteUserID.Valid {
			continue
		}
		s.Count++
		if row.VoteUserID.UUID == userID {
			s.VotedByUser = true
		}
	}
	return s
}

type VoteSummary struct {
	Count       int
	VotedByUser bool
}
