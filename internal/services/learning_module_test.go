package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	"github.com/yungbote/learnnow-backend/internal/data/repos/testutil"
)

func newLearningModuleService(env *testEnv, pageSize int) LearningModuleService {
	return NewLearningModuleService(env.uows, env.dir, env.membership, env.groups, pageSize, env.log)
}

func moduleInput(title string, gradeID, subjectID uuid.UUID, tagIDs ...uuid.UUID) *LearningModuleInput {
	return &LearningModuleInput{
		Title:       title,
		Description: "about " + title,
		ImageURL:    "https://img.example.com/" + title,
		GradeID:     gradeID,
		SubjectID:   subjectID,
		TagIDs:      tagIDs,
	}
}

func TestLearningModuleCreateUpdate(t *testing.T) {
	env := newTestEnv(t)
	svc := newLearningModuleService(env, 10)
	g, s := testutil.Catalog(t, env.ctx, env.db, env.owner.UserID)
	tag := testutil.SeedTag(t, env.ctx, env.db, "unit", env.owner.UserID)

	created, err := svc.Create(env.ctx, env.owner, moduleInput("Ecosystems", g.ID, s.ID, tag.ID))
	require.NoError(t, err)
	require.Equal(t, "Ecosystems", created.Title)
	require.Len(t, created.Tags, 1)
	require.Zero(t, created.ResourceCount)

	_, err = svc.Create(env.ctx, env.other, moduleInput("ecosystems", g.ID, s.ID))
	requireAPIError(t, err, 409, "already_exists")

	_, err = svc.Update(env.ctx, env.other, created.ID, moduleInput("Food webs", g.ID, s.ID))
	requireAPIError(t, err, 401, "not_owner")

	updated, err := svc.Update(env.ctx, env.owner, created.ID, moduleInput("Food webs", g.ID, s.ID))
	require.NoError(t, err)
	require.Equal(t, "Food webs", updated.Title)
	require.Empty(t, updated.Tags)
}

func TestLearningModuleResourcesMapping(t *testing.T) {
	env := newTestEnv(t)
	svc := newLearningModuleService(env, 10)
	g, s := testutil.Catalog(t, env.ctx, env.db, env.owner.UserID)
	m := testutil.SeedLearningModule(t, env.ctx, env.db, "Weather", g.ID, s.ID, env.owner.UserID, 0)
	r1 := testutil.SeedResource(t, env.ctx, env.db, "Clouds", g.ID, s.ID, env.other.UserID, 0)
	r2 := testutil.SeedResource(t, env.ctx, env.db, "Rain", g.ID, s.ID, env.other.UserID, 0)

	_, err := svc.AddResources(env.ctx, env.other, m.ID, []uuid.UUID{r1.ID})
	requireAPIError(t, err, 401, "not_owner")

	_, err = svc.AddResources(env.ctx, env.owner, m.ID, []uuid.UUID{uuid.New()})
	requireAPIError(t, err, 400, "invalid_resource")

	linked, err := svc.AddResources(env.ctx, env.owner, m.ID, []uuid.UUID{r1.ID, r2.ID, r1.ID})
	require.NoError(t, err)
	require.Len(t, linked, 2)

	again, err := svc.AddResources(env.ctx, env.owner, m.ID, []uuid.UUID{r2.ID})
	require.NoError(t, err)
	require.Len(t, again, 2)

	got, err := svc.Get(env.ctx, env.owner, m.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.ResourceCount)

	require.NoError(t, svc.RemoveResource(env.ctx, env.admin, m.ID, r1.ID))
	requireAPIError(t, svc.RemoveResource(env.ctx, env.owner, m.ID, r1.ID), 404, "mapping_not_found")

	remaining, err := svc.Resources(env.ctx, env.owner, m.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, r2.ID, remaining[0].ID)
	require.EqualValues(t, 1, env.count(t, "resource", "id = ?", r1.ID))
}

func TestLearningModuleListExcludeEmpty(t *testing.T) {
	env := newTestEnv(t)
	svc := newLearningModuleService(env, 1)
	g, s := testutil.Catalog(t, env.ctx, env.db, env.owner.UserID)
	empty := testutil.SeedLearningModule(t, env.ctx, env.db, "Empty", g.ID, s.ID, env.owner.UserID, 0)
	full := testutil.SeedLearningModule(t, env.ctx, env.db, "Full", g.ID, s.ID, env.owner.UserID, time.Hour)
	full2 := testutil.SeedLearningModule(t, env.ctx, env.db, "Full too", g.ID, s.ID, env.owner.UserID, 2*time.Hour)
	r := testutil.SeedResource(t, env.ctx, env.db, "Item", g.ID, s.ID, env.owner.UserID, 0)
	r2 := testutil.SeedResource(t, env.ctx, env.db, "Item 2", g.ID, s.ID, env.owner.UserID, 0)
	testutil.SeedMapping(t, env.ctx, env.db, r.ID, full.ID, env.owner.UserID)
	testutil.SeedMapping(t, env.ctx, env.db, r2.ID, full.ID, env.owner.UserID)
	testutil.SeedMapping(t, env.ctx, env.db, r.ID, full2.ID, env.owner.UserID)

	page, err := svc.List(env.ctx, env.owner, ListQuery{})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, empty.ID, page[0].ID)

	nonEmpty, err := svc.List(env.ctx, env.owner, ListQuery{ExcludeEmpty: true, Filter: repos.Filter{GradeIDs: []uuid.UUID{g.ID}}})
	require.NoError(t, err)
	require.Len(t, nonEmpty, 2, "exclude-empty ignores the page size")
	counts := map[uuid.UUID]int{}
	for _, v := range nonEmpty {
		counts[v.ID] = v.ResourceCount
	}
	require.Equal(t, 2, counts[full.ID])
	require.Equal(t, 1, counts[full2.ID])
}

func TestLearningModuleDeleteRemovesDependents(t *testing.T) {
	env := newTestEnv(t)
	svc := newLearningModuleService(env, 10)
	g, s := testutil.Catalog(t, env.ctx, env.db, env.owner.UserID)
	tag := testutil.SeedTag(t, env.ctx, env.db, "term", env.owner.UserID)
	m := testutil.SeedLearningModule(t, env.ctx, env.db, "Geometry", g.ID, s.ID, env.owner.UserID, 0)
	r := testutil.SeedResource(t, env.ctx, env.db, "Angles", g.ID, s.ID, env.owner.UserID, 0)
	testutil.SeedLearningModuleTag(t, env.ctx, env.db, m.ID, tag.ID)
	testutil.SeedLearningModuleVote(t, env.ctx, env.db, m.ID, env.other.UserID)
	testutil.SeedMapping(t, env.ctx, env.db, r.ID, m.ID, env.owner.UserID)
	testutil.SeedUserLearningModule(t, env.ctx, env.db, env.other.UserID, m.ID)
	testutil.SeedTabConfiguration(t, env.ctx, env.db, "tab-1", "group-1", m.ID, env.owner.UserID)

	_, err := svc.Delete(env.ctx, env.other, m.ID)
	requireAPIError(t, err, 401, "not_owner")

	deleted, err := svc.Delete(env.ctx, env.admin, m.ID)
	require.NoError(t, err)
	require.Equal(t, 1, deleted.VoteCount)
	require.Equal(t, 1, deleted.ResourceCount)

	for _, table := range []string{"learning_module_tag", "learning_module_vote", "resource_module_mapping", "user_learning_module", "tab_configuration"} {
		require.EqualValues(t, 0, env.count(t, table, "learning_module_id = ?", m.ID), table)
	}
	require.EqualValues(t, 0, env.count(t, "learning_module", "id = ?", m.ID))
	require.EqualValues(t, 1, env.count(t, "resource", "id = ?", r.ID))
}

func TestLearningModuleVoting(t *testing.T) {
	env := newTestEnv(t)
	svc := newLearningModuleService(env, 10)
	g, s := testutil.Catalog(t, env.ctx, env.db, env.owner.UserID)
	m := testutil.SeedLearningModule(t, env.ctx, env.db, "Poetry", g.ID, s.ID, env.owner.UserID, 0)

	require.NoError(t, svc.Upvote(env.ctx, env.other, m.ID))
	requireAPIError(t, svc.Upvote(env.ctx, env.other, m.ID), 409, "already_voted")

	got, err := svc.Get(env.ctx, env.other, m.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.VoteCount)
	require.True(t, got.IsVotedByUser)

	removed, err := svc.Downvote(env.ctx, env.other, m.ID)
	require.NoError(t, err)
	require.True(t, removed)
	removed, err = svc.Downvote(env.ctx, env.other, m.ID)
	require.NoError(t, err)
	require.False(t, removed)

	authors, err := svc.Authors(env.ctx, env.other)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	require.Equal(t, "Olivia Owner", authors[0].DisplayName)
}
