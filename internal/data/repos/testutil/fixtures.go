package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnnow-backend/internal/domain"
)

func create(tb testing.TB, ctx context.Context, db *gorm.DB, what string, v interface{}) {
	tb.Helper()
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(v).Error; err != nil {
		tb.Fatalf("seed %s: %v", what, err)
	}
}

func SeedGrade(tb testing.TB, ctx context.Context, db *gorm.DB, name string, userID uuid.UUID) *types.Grade {
	tb.Helper()
	g := &types.Grade{ID: uuid.New(), Name: name, Audit: types.NewAudit(userID)}
	create(tb, ctx, db, "grade", g)
	return g
}

func SeedSubject(tb testing.TB, ctx context.Context, db *gorm.DB, name string, userID uuid.UUID) *types.Subject {
	tb.Helper()
	s := &types.Subject{ID: uuid.New(), Name: name, Audit: types.NewAudit(userID)}
	create(tb, ctx, db, "subject", s)
	return s
}

func SeedTag(tb testing.TB, ctx context.Context, db *gorm.DB, name string, userID uuid.UUID) *types.Tag {
	tb.Helper()
	t := &types.Tag{ID: uuid.New(), Name: name, Audit: types.NewAudit(userID)}
	create(tb, ctx, db, "tag", t)
	return t
}

// SeedResource inserts a resource whose UpdatedAt is offset from a fixed
// base so ordering by last update is deterministic.
func SeedResource(tb testing.TB, ctx context.Context, db *gorm.DB, title string, gradeID, subjectID, userID uuid.UUID, age time.Duration) *types.Resource {
	tb.Helper()
	at := baseTime().Add(-age)
	r := &types.Resource{
		ID:           uuid.New(),
		Title:        title,
		Description:  "description of " + title,
		ImageURL:     "https://img.example.com/" + title,
		ResourceType: types.ResourceTypeWeb,
		GradeID:      gradeID,
		SubjectID:    subjectID,
		Audit:        types.Audit{CreatedBy: userID, CreatedAt: at, UpdatedBy: userID, UpdatedAt: at},
	}
	create(tb, ctx, db, "resource", r)
	return r
}

func SeedLearningModule(tb testing.TB, ctx context.Context, db *gorm.DB, title string, gradeID, subjectID, userID uuid.UUID, age time.Duration) *types.LearningModule {
	tb.Helper()
	at := baseTime().Add(-age)
	m := &types.LearningModule{
		ID:          uuid.New(),
		Title:       title,
		Description: "description of " + title,
		ImageURL:    "https://img.example.com/" + title,
		GradeID:     gradeID,
		SubjectID:   subjectID,
		Audit:       types.Audit{CreatedBy: userID, CreatedAt: at, UpdatedBy: userID, UpdatedAt: at},
	}
	create(tb, ctx, db, "learning module", m)
	return m
}

func SeedResourceTag(tb testing.TB, ctx context.Context, db *gorm.DB, resourceID, tagID uuid.UUID) *types.ResourceTag {
	tb.Helper()
	rt := &types.ResourceTag{ResourceID: resourceID, TagID: tagID}
	create(tb, ctx, db, "resource tag", rt)
	return rt
}

func SeedLearningModuleTag(tb testing.TB, ctx context.Context, db *gorm.DB, moduleID, tagID uuid.UUID) *types.LearningModuleTag {
	tb.Helper()
	mt := &types.LearningModuleTag{LearningModuleID: moduleID, TagID: tagID}
	create(tb, ctx, db, "learning module tag", mt)
	return mt
}

func SeedResourceVote(tb testing.TB, ctx context.Context, db *gorm.DB, resourceID, userID uuid.UUID) *types.ResourceVote {
	tb.Helper()
	v := &types.ResourceVote{ID: uuid.New(), ResourceID: resourceID, UserID: userID}
	create(tb, ctx, db, "resource vote", v)
	return v
}

func SeedLearningModuleVote(tb testing.TB, ctx context.Context, db *gorm.DB, moduleID, userID uuid.UUID) *types.LearningModuleVote {
	tb.Helper()
	v := &types.LearningModuleVote{ID: uuid.New(), LearningModuleID: moduleID, UserID: userID}
	create(tb, ctx, db, "learning module vote", v)
	return v
}

func SeedMapping(tb testing.TB, ctx context.Context, db *gorm.DB, resourceID, moduleID, userID uuid.UUID) *types.ResourceModuleMapping {
	tb.Helper()
	m := &types.ResourceModuleMapping{ResourceID: resourceID, LearningModuleID: moduleID, CreatedBy: userID}
	create(tb, ctx, db, "resource module mapping", m)
	return m
}

func SeedUserResource(tb testing.TB, ctx context.Context, db *gorm.DB, userID, resourceID uuid.UUID) *types.UserResource {
	tb.Helper()
	u := &types.UserResource{ID: uuid.New(), UserID: userID, ResourceID: resourceID}
	create(tb, ctx, db, "user resource", u)
	return u
}

func SeedUserLearningModule(tb testing.TB, ctx context.Context, db *gorm.DB, userID, moduleID uuid.UUID) *types.UserLearningModule {
	tb.Helper()
	u := &types.UserLearningModule{ID: uuid.New(), UserID: userID, LearningModuleID: moduleID}
	create(tb, ctx, db, "user learning module", u)
	return u
}

func SeedTabConfiguration(tb testing.TB, ctx context.Context, db *gorm.DB, tabID, groupID string, moduleID, userID uuid.UUID) *types.TabConfiguration {
	tb.Helper()
	tc := &types.TabConfiguration{
		ID:               uuid.New(),
		TeamID:           "team-" + groupID,
		ChannelID:        "channel-" + tabID,
		GroupID:          groupID,
		TabID:            tabID,
		LearningModuleID: moduleID,
		Audit:            types.NewAudit(userID),
	}
	create(tb, ctx, db, "tab configuration", tc)
	return tc
}

// Catalog seeds one grade and one subject, the minimum a resource needs.
func Catalog(tb testing.TB, ctx context.Context, db *gorm.DB, userID uuid.UUID) (*types.Grade, *types.Subject) {
	tb.Helper()
	return SeedGrade(tb, ctx, db, "Grade "+uuid.NewString()[:8], userID),
		SeedSubject(tb, ctx, db, "Subject "+uuid.NewString()[:8], userID)
}

func baseTime() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}
