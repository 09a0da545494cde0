package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnnow-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnnow-backend/internal/domain"
)

func TestStoreStagesUntilSaveChanges(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	uow := NewUnitOfWork(db, testutil.Logger(t))
	user := uuid.New()

	g := uow.Grades.Add(&types.Grade{Name: "Grade A", Audit: types.NewAudit(user)})
	if g.ID == uuid.Nil {
		t.Fatalf("Add: expected id to be assigned")
	}
	if uow.Pending() != 1 {
		t.Fatalf("Pending: want=1 got=%d", uow.Pending())
	}
	if got, err := uow.Grades.Get(ctx, g.ID); err != nil || got != nil {
		t.Fatalf("Get before commit: got=%v err=%v", got, err)
	}

	if err := uow.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges: %v", err)
	}
	if uow.Pending() != 0 {
		t.Fatalf("Pending after commit: %d", uow.Pending())
	}
	got, err := uow.Grades.Get(ctx, g.ID)
	if err != nil || got == nil || got.Name != "Grade A" {
		t.Fatalf("Get after commit: got=%v err=%v", got, err)
	}

	got.Name = "Grade B"
	uow.Grades.Update(got)
	if err := uow.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges update: %v", err)
	}
	if rows, err := uow.Grades.GetByName(ctx, "grade b"); err != nil || len(rows) != 1 {
		t.Fatalf("GetByName: err=%v len=%d", err, len(rows))
	}

	uow.Grades.Delete(got)
	if err := uow.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges delete: %v", err)
	}
	if rows, err := uow.Grades.GetAll(ctx); err != nil || rows == nil || len(rows) != 0 {
		t.Fatalf("GetAll: rows=%v err=%v", rows, err)
	}
}

func TestStoreFindEmptyIsNotAnError(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	uow := NewUnitOfWork(db, testutil.Logger(t))

	rows, err := uow.Tags.Find(ctx, func(q *gorm.DB) *gorm.DB { return q.Where("tag_name = ?", "missing") })
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("Find: expected empty non-nil slice, got %v", rows)
	}
	if got, err := uow.Tags.Get(ctx, uuid.New()); err != nil || got != nil {
		t.Fatalf("Get missing: got=%v err=%v", got, err)
	}
	if got, err := uow.Tags.Get(ctx, uuid.Nil); err != nil || got != nil {
		t.Fatalf("Get nil id: got=%v err=%v", got, err)
	}
}

func TestSaveChangesNothingStaged(t *testing.T) {
	db := testutil.DB(t)
	uow := NewUnitOfWork(db, testutil.Logger(t))
	if err := uow.SaveChanges(context.Background()); err != nil {
		t.Fatalf("SaveChanges: %v", err)
	}
}
