package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnnow-backend/internal/data/repos/testutil"
)

func TestUserSettings(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserSettingsService(env.uows, env.log)
	grade, tag := uuid.New(), uuid.New()

	empty, err := svc.Get(env.ctx, env.owner)
	require.NoError(t, err)
	require.Equal(t, env.owner.UserID, empty.UserID)
	require.Empty(t, empty.ResourceGrades)
	require.NotNil(t, empty.LearningModuleTags)

	created, err := svc.Create(env.ctx, env.owner, &UserSettingsInput{ResourceGrades: []uuid.UUID{grade}, LearningModuleTags: []uuid.UUID{tag}})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{grade}, created.ResourceGrades)

	_, err = svc.Create(env.ctx, env.owner, &UserSettingsInput{})
	requireAPIError(t, err, 409, "already_exists")

	_, err = svc.Update(env.ctx, env.other, env.owner.UserID, &UserSettingsInput{})
	requireAPIError(t, err, 401, "not_owner")
	_, err = svc.Update(env.ctx, env.other, env.other.UserID, &UserSettingsInput{})
	requireAPIError(t, err, 404, "user_settings_not_found")

	updated, err := svc.Update(env.ctx, env.owner, env.owner.UserID, &UserSettingsInput{ResourceSubjects: []uuid.UUID{grade, tag}})
	require.NoError(t, err)
	require.Empty(t, updated.ResourceGrades)
	require.Equal(t, []uuid.UUID{grade, tag}, updated.ResourceSubjects)

	reloaded, err := svc.Get(env.ctx, env.owner)
	require.NoError(t, err)
	require.Equal(t, updated, reloaded)
}

func TestUserLibrary(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserLibraryService(env.uows, env.dir, env.log)
	g, s := testutil.Catalog(t, env.ctx, env.db, env.owner.UserID)
	r := testutil.SeedResource(t, env.ctx, env.db, "Saved", g.ID, s.ID, env.owner.UserID, 0)
	m := testutil.SeedLearningModule(t, env.ctx, env.db, "Saved module", g.ID, s.ID, env.owner.UserID, 0)

	saved, err := svc.SaveResource(env.ctx, env.other, r.ID)
	require.NoError(t, err)
	require.Equal(t, r.ID, saved.ID)
	_, err = svc.SaveResource(env.ctx, env.other, r.ID)
	requireAPIError(t, err, 409, "already_saved")
	_, err = svc.SaveResource(env.ctx, env.other, uuid.New())
	requireAPIError(t, err, 404, "resource_not_found")

	mine, err := svc.Resources(env.ctx, env.other)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	theirs, err := svc.Resources(env.ctx, env.owner)
	require.NoError(t, err)
	require.Empty(t, theirs)

	require.NoError(t, svc.RemoveResource(env.ctx, env.other, r.ID))
	requireAPIError(t, svc.RemoveResource(env.ctx, env.other, r.ID), 404, "saved_resource_not_found")

	_, err = svc.SaveLearningModule(env.ctx, env.other, m.ID)
	require.NoError(t, err)
	_, err = svc.SaveLearningModule(env.ctx, env.other, m.ID)
	requireAPIError(t, err, 409, "already_saved")
	modules, err := svc.LearningModules(env.ctx, env.other)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	require.Equal(t, "Saved module", modules[0].Title)
	require.NoError(t, svc.RemoveLearningModule(env.ctx, env.other, m.ID))
	require.EqualValues(t, 0, env.count(t, "user_learning_module", "user_id = ?", env.other.UserID))
}
