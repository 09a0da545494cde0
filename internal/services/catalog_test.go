package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnnow-backend/internal/data/repos/testutil"
)

func TestCatalogCreateDuplicateNameConflicts(t *testing.T) {
	env := newTestEnv(t)
	for name, svc := range map[string]CatalogService{
		"grade":   NewGradeService(env.uows, env.dir, env.log),
		"subject": NewSubjectService(env.uows, env.dir, env.log),
		"tag":     NewTagService(env.uows, env.dir, env.log),
	} {
		t.Run(name, func(t *testing.T) {
			first, err := svc.Create(env.ctx, env.owner, &CatalogInput{Name: "  Algebra  "})
			require.NoError(t, err)
			require.Equal(t, "Algebra", first.Name)
			require.NotEqual(t, uuid.Nil, first.ID)
			require.Equal(t, "Olivia Owner", first.CreatedByName)

			_, err = svc.Create(env.ctx, env.other, &CatalogInput{Name: "algebra"})
			requireAPIError(t, err, 409, "already_exists")
		})
	}
}

func TestCatalogValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewGradeService(env.uows, env.dir, env.log)

	_, err := svc.Create(env.ctx, env.owner, nil)
	requireAPIError(t, err, 400, "invalid_payload")
	_, err = svc.Create(env.ctx, env.owner, &CatalogInput{Name: "   "})
	requireAPIError(t, err, 400, "invalid_name")

	created, err := svc.Create(env.ctx, env.owner, &CatalogInput{Name: "Grade 1"})
	require.NoError(t, err)
	wrong := uuid.New()
	_, err = svc.Update(env.ctx, env.owner, created.ID, &CatalogInput{ID: &wrong, Name: "Grade 2"})
	requireAPIError(t, err, 400, "id_mismatch")
	_, err = svc.Get(env.ctx, env.owner, uuid.New())
	requireAPIError(t, err, 404, "grade_not_found")
}

func TestCatalogUpdateRenames(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSubjectService(env.uows, env.dir, env.log)
	math, err := svc.Create(env.ctx, env.owner, &CatalogInput{Name: "Math"})
	require.NoError(t, err)
	_, err = svc.Create(env.ctx, env.owner, &CatalogInput{Name: "Science"})
	require.NoError(t, err)

	_, err = svc.Update(env.ctx, env.other, math.ID, &CatalogInput{Name: "science"})
	requireAPIError(t, err, 409, "already_exists")

	// Changing only the case of its own name is allowed.
	updated, err := svc.Update(env.ctx, env.other, math.ID, &CatalogInput{ID: &math.ID, Name: "MATH"})
	require.NoError(t, err)
	require.Equal(t, "MATH", updated.Name)
	require.Equal(t, env.owner.UserID, updated.CreatedBy)
	require.Equal(t, env.other.UserID, updated.UpdatedBy)
	require.Equal(t, "Oscar Other", updated.UpdatedByName)

	all, err := svc.List(env.ctx, env.owner)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestCatalogDeleteReferencedGradeReportsDependents(t *testing.T) {
	env := newTestEnv(t)
	svc := NewGradeService(env.uows, env.dir, env.log)
	g, s := testutil.Catalog(t, env.ctx, env.db, env.owner.UserID)
	testutil.SeedResource(t, env.ctx, env.db, "Fractions", g.ID, s.ID, env.owner.UserID, time.Hour)

	_, err := svc.Delete(env.ctx, env.owner, g.ID)
	requireAPIError(t, err, 409, "has_dependents")
	require.EqualValues(t, 1, env.count(t, "grade", "id = ?", g.ID))

	free := testutil.SeedGrade(t, env.ctx, env.db, "Unused", env.owner.UserID)
	deleted, err := svc.Delete(env.ctx, env.owner, free.ID)
	require.NoError(t, err)
	require.Equal(t, "Unused", deleted.Name)
	require.EqualValues(t, 0, env.count(t, "grade", "id = ?", free.ID))
}

func TestCatalogDirectoryFailureDegradesToEmptyNames(t *testing.T) {
	env := newTestEnv(t)
	env.dir.err = errors.New("graph unavailable")
	svc := NewTagService(env.uows, env.dir, env.log)

	created, err := svc.Create(env.ctx, env.owner, &CatalogInput{Name: "Hands-on"})
	require.NoError(t, err)
	require.Empty(t, created.CreatedByName)
	require.Equal(t, env.owner.UserID, created.CreatedBy)
}

func TestCatalogViewKeysNameByKind(t *testing.T) {
	v := CatalogView{Kind: "subject", ID: uuid.New(), Name: "History"}
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "History", decoded["subjectName"])
	require.Equal(t, v.ID.String(), decoded["id"])
	require.NotContains(t, decoded, "Name")
}
