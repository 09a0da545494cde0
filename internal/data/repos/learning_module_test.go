package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnnow-backend/internal/domain"
)

func moduleTitles(rows []*types.LearningModule) []string {
	out := make([]string, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.Title)
	}
	return out
}

func TestLearningModuleRepoSearch(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	user := uuid.New()
	g1, s1 := testutil.Catalog(t, ctx, db, user)
	g2, _ := testutil.Catalog(t, ctx, db, user)
	tag := testutil.SeedTag(t, ctx, db, "intro", user)

	intro := testutil.SeedLearningModule(t, ctx, db, "Intro", g1.ID, s1.ID, user, time.Hour)
	testutil.SeedLearningModule(t, ctx, db, "Deep dive", g2.ID, s1.ID, user, 2*time.Hour)
	testutil.SeedLearningModuleTag(t, ctx, db, intro.ID, tag.ID)

	repo := NewUnitOfWork(db, testutil.Logger(t)).LearningModules
	if got, err := repo.Search(ctx, Filter{TagIDs: []uuid.UUID{tag.ID}}, 0, 10); err != nil || !sameTitles(moduleTitles(got), "Intro") {
		t.Fatalf("Search tag: err=%v got=%v", err, moduleTitles(got))
	}
	if got, err := repo.Search(ctx, Filter{GradeIDs: []uuid.UUID{g2.ID}}, 0, 10); err != nil || !sameTitles(moduleTitles(got), "Deep dive") {
		t.Fatalf("Search grade: err=%v got=%v", err, moduleTitles(got))
	}
	if got, err := repo.List(ctx, 1, 10); err != nil || !sameTitles(moduleTitles(got), "Deep dive") {
		t.Fatalf("List: err=%v got=%v", err, moduleTitles(got))
	}
}

func TestLearningModuleRepoSearchWithResources(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	user := uuid.New()
	g1, s1 := testutil.Catalog(t, ctx, db, user)
	g2, _ := testutil.Catalog(t, ctx, db, user)
	r := testutil.SeedResource(t, ctx, db, "worksheet", g1.ID, s1.ID, user, 0)

	full := testutil.SeedLearningModule(t, ctx, db, "Full", g1.ID, s1.ID, user, time.Hour)
	testutil.SeedLearningModule(t, ctx, db, "Empty", g1.ID, s1.ID, user, 2*time.Hour)
	other := testutil.SeedLearningModule(t, ctx, db, "Other grade", g2.ID, s1.ID, user, 3*time.Hour)
	testutil.SeedMapping(t, ctx, db, r.ID, full.ID, user)
	testutil.SeedMapping(t, ctx, db, r.ID, other.ID, user)

	repo := NewUnitOfWork(db, testutil.Logger(t)).LearningModules
	got, err := repo.SearchWithResources(ctx, Filter{})
	if err != nil || !sameTitles(moduleTitles(got), "Full", "Other grade") {
		t.Fatalf("SearchWithResources: err=%v got=%v", err, moduleTitles(got))
	}
	got, err = repo.SearchWithResources(ctx, Filter{GradeIDs: []uuid.UUID{g1.ID}})
	if err != nil || !sameTitles(moduleTitles(got), "Full") {
		t.Fatalf("SearchWithResources grade: err=%v got=%v", err, moduleTitles(got))
	}
}

func TestLearningModuleRepoVotesAndResources(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	g, s := testutil.Catalog(t, ctx, db, alice)
	r1 := testutil.SeedResource(t, ctx, db, "r1", g.ID, s.ID, alice, 0)
	r2 := testutil.SeedResource(t, ctx, db, "r2", g.ID, s.ID, alice, 0)
	busy := testutil.SeedLearningModule(t, ctx, db, "busy", g.ID, s.ID, alice, 0)
	idle := testutil.SeedLearningModule(t, ctx, db, "idle", g.ID, s.ID, bob, time.Hour)
	testutil.SeedLearningModuleVote(t, ctx, db, busy.ID, alice)
	testutil.SeedLearningModuleVote(t, ctx, db, busy.ID, bob)
	testutil.SeedMapping(t, ctx, db, r1.ID, busy.ID, alice)
	testutil.SeedMapping(t, ctx, db, r2.ID, busy.ID, alice)

	repo := NewUnitOfWork(db, testutil.Logger(t)).LearningModules
	details, err := repo.GetWithVotesAndResources(ctx, []uuid.UUID{busy.ID, idle.ID})
	if err != nil {
		t.Fatalf("GetWithVotesAndResources: %v", err)
	}
	sum := SummarizeLearningModule(details[busy.ID], bob)
	if sum.Count != 2 || !sum.VotedByUser || sum.ResourceCount != 2 {
		t.Fatalf("busy summary: %+v", sum)
	}
	sum = SummarizeLearningModule(details[idle.ID], bob)
	if sum.Count != 0 || sum.VotedByUser || sum.ResourceCount != 0 {
		t.Fatalf("idle summary: %+v", sum)
	}

	if authors, err := repo.ListCreatedBy(ctx, 0); err != nil || len(authors) != 2 {
		t.Fatalf("ListCreatedBy: err=%v authors=%v", err, authors)
	}
}

func TestLibraryAndTabRepos(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	user := uuid.New()
	g, s := testutil.Catalog(t, ctx, db, user)
	r := testutil.SeedResource(t, ctx, db, "saved", g.ID, s.ID, user, 0)
	m := testutil.SeedLearningModule(t, ctx, db, "pinned", g.ID, s.ID, user, 0)
	testutil.SeedUserResource(t, ctx, db, user, r.ID)
	testutil.SeedUserLearningModule(t, ctx, db, user, m.ID)
	tc := testutil.SeedTabConfiguration(t, ctx, db, "tab-1", "group-1", m.ID, user)

	uow := NewUnitOfWork(db, testutil.Logger(t))
	saved, err := uow.UserResources.GetByUser(ctx, user)
	if err != nil || len(saved) != 1 || saved[0].Resource == nil || saved[0].Resource.Title != "saved" {
		t.Fatalf("UserResources.GetByUser: err=%v saved=%v", err, saved)
	}
	if got, err := uow.UserResources.GetByUserAndResource(ctx, user, r.ID); err != nil || got == nil {
		t.Fatalf("GetByUserAndResource: got=%v err=%v", got, err)
	}
	if got, err := uow.UserLearningModules.GetByUserAndModule(ctx, uuid.New(), m.ID); err != nil || got != nil {
		t.Fatalf("GetByUserAndModule other user: got=%v err=%v", got, err)
	}
	pinned, err := uow.TabConfigurations.GetByTabAndGroup(ctx, "tab-1", "group-1")
	if err != nil || pinned == nil || pinned.ID != tc.ID || pinned.LearningModule == nil {
		t.Fatalf("GetByTabAndGroup: got=%v err=%v", pinned, err)
	}

	uow.UserSettings.Add(&types.UserSettings{UserID: user, ResourceGradeIDs: types.JoinIDs([]uuid.UUID{g.ID})})
	if err := uow.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges settings: %v", err)
	}
	settings, err := uow.UserSettings.GetByUserID(ctx, user)
	if err != nil || settings == nil || settings.ResourceGradeIDs != g.ID.String() {
		t.Fatalf("GetByUserID: got=%v err=%v", settings, err)
	}
}
