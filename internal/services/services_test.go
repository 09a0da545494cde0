package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	"github.com/yungbote/learnnow-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type fakeDirectory struct {
	names map[uuid.UUID]string
	err   error
	calls int
}

func (f *fakeDirectory) DisplayNames(_ context.Context, _ string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := map[uuid.UUID]string{}
	for _, id := range ids {
		if n, ok := f.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type fakeMembership struct {
	members map[string][]uuid.UUID
	err     error
}

func (f *fakeMembership) IsMember(_ context.Context, _ string, userID uuid.UUID, groupID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, id := range f.members[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type testEnv struct {
	ctx        context.Context
	db         *gorm.DB
	log        *logger.Logger
	uows       repos.UnitOfWorkFactory
	dir        *fakeDirectory
	membership *fakeMembership
	groups     Groups

	owner Caller
	admin Caller
	other Caller
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	env := &testEnv{
		ctx:   context.Background(),
		db:    db,
		log:   log,
		uows:  repos.NewUnitOfWorkFactory(db, log),
		owner: Caller{UserID: uuid.New(), Token: "owner-token"},
		admin: Caller{UserID: uuid.New(), Token: "admin-token"},
		other: Caller{UserID: uuid.New(), Token: "other-token"},
		groups: Groups{
			Admin:     "admins",
			Teacher:   "teachers",
			Moderator: "moderators",
		},
	}
	env.dir = &fakeDirectory{names: map[uuid.UUID]string{
		env.owner.UserID: "Olivia Owner",
		env.admin.UserID: "Adrian Admin",
		env.other.UserID: "Oscar Other",
	}}
	env.membership = &fakeMembership{members: map[string][]uuid.UUID{
		"admins":   {env.admin.UserID},
		"teachers": {env.owner.UserID},
	}}
	return env
}

func (e *testEnv) count(t *testing.T, table string, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Table(table).Where(where, args...).Count(&n).Error)
	return n
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	ae, ok := apierr.As(err)
	require.True(t, ok, "want *apierr.Error, got %T: %v", err, err)
	require.Equal(t, status, ae.Status, "status for %v", err)
	if code != "" {
		require.Equal(t, code, ae.Code, "code for %v", err)
	}
}

func TestPageBounds(t *testing.T) {
	skip, count, err := pageBounds(2, 10)
	require.NoError(t, err)
	require.Equal(t, 20, skip)
	require.Equal(t, 10, count)

	_, count, err = pageBounds(0, 0)
	require.NoError(t, err)
	require.Equal(t, DefaultPageSize, count)

	_, _, err = pageBounds(-1, 10)
	requireAPIError(t, err, 400, "invalid_page")
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	auth := authorizer{membership: env.membership, groups: env.groups}

	require.NoError(t, auth.requireOwnerOrAdmin(env.ctx, env.owner, env.owner.UserID, "resource"))
	require.NoError(t, auth.requireOwnerOrAdmin(env.ctx, env.admin, env.owner.UserID, "resource"))
	requireAPIError(t, auth.requireOwnerOrAdmin(env.ctx, env.other, env.owner.UserID, "resource"), 401, "not_owner")

	noGroups := authorizer{membership: env.membership}
	requireAPIError(t, noGroups.requireOwnerOrAdmin(env.ctx, env.admin, env.owner.UserID, "resource"), 401, "not_owner")

	failing := authorizer{membership: &fakeMembership{err: errors.New("graph down")}, groups: env.groups}
	err := failing.requireOwnerOrAdmin(env.ctx, env.other, env.owner.UserID, "resource")
	require.Error(t, err)
	_, isAPI := apierr.As(err)
	require.False(t, isAPI, "membership failures are internal errors")
}

func TestRequireSameID(t *testing.T) {
	id := uuid.New()
	other := uuid.New()
	require.NoError(t, requireSameID(id, nil))
	require.NoError(t, requireSameID(id, &id))
	require.NoError(t, requireSameID(id, &uuid.Nil))
	requireAPIError(t, requireSameID(id, &other), 400, "id_mismatch")
}
