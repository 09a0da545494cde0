package repos

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter narrows resource and learning module listings. An empty id list
// means "no filter" for that field, never "match nothing".
type Filter struct {
	GradeIDs     []uuid.UUID
	SubjectIDs   []uuid.UUID
	CreatedByIDs []uuid.UUID
	TagIDs       []uuid.UUID
	SearchText   string
	// ExactMatch compares SearchText to the title verbatim and ignores every
	// other field.
	ExactMatch bool
}

func (f Filter) IsEmpty() bool {
	return !f.ExactMatch &&
		len(f.GradeIDs) == 0 &&
		len(f.SubjectIDs) == 0 &&
		len(f.CreatedByIDs) == 0 &&
		len(f.TagIDs) == 0 &&
		strings.TrimSpace(f.SearchText) == ""
}

// taggedTable describes how an owner table links to tags.
type taggedTable struct {
	table      string
	tagTable   string
	tagOwnerFK string
}

var (
	resourceTable       = taggedTable{table: "resource", tagTable: "resource_tag", tagOwnerFK: "resource_id"}
	learningModuleTable = taggedTable{table: "learning_module", tagTable: "learning_module_tag", tagOwnerFK: "learning_module_id"}
)

func (t taggedTable) col(name string) string {
	return t.table + "." + name
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterScope composes the filter in a fixed order: exact title match wins
// outright; otherwise membership filters are ANDed across fields, then the
// title substring, then tag membership through a semi-join.
func filterScope(t taggedTable, f Filter) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if f.ExactMatch {
			return db.Where(t.col("title")+" = ?", strings.TrimSpace(f.SearchText))
		}
		if len(f.GradeIDs) > 0 {
			db = db.Where(t.col("grade_id")+" IN ?", f.GradeIDs)
		}
		if len(f.SubjectIDs) > 0 {
			db = db.Where(t.col("subject_id")+" IN ?", f.SubjectIDs)
		}
		if len(f.CreatedByIDs) > 0 {
			db = db.Where(t.col("created_by")+" IN ?", f.CreatedByIDs)
		}
		if text := strings.ToLower(strings.TrimSpace(f.SearchText)); text != "" {
			db = db.Where("LOWER("+t.col("title")+`) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(text)+"%")
		}
		if len(f.TagIDs) > 0 {
			sub := db.Session(&gorm.Session{NewDB: true}).
				Table(t.tagTable).
				Select(t.tagOwnerFK).
				Where("tag_id IN ?", f.TagIDs)
			db = db.Where(t.col("id")+" IN (?)", sub)
		}
		return db
	}
}

func newestFirst(t taggedTable) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(t.col("updated_at") + " DESC").Order(t.col("id"))
	}
}
