package library

import (
	"strings"

	"github.com/google/uuid"
)

// UserSettings keeps a user's saved filter selections. Every list is stored
// as comma-separated ids.
type UserSettings struct {
	UserID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	ResourceGradeIDs     string    `gorm:"column:resource_grade_ids" json:"resourceGrades"`
	ResourceSubjectIDs   string    `gorm:"column:resource_subject_ids" json:"resourceSubjects"`
	ResourceCreatedByIDs string    `gorm:"column:resource_created_by_ids" json:"resourceCreatedBy"`
	ResourceTagIDs       string    `gorm:"column:resource_tag_ids" json:"resourceTags"`
	ModuleGradeIDs       string    `gorm:"column:module_grade_ids" json:"learningModuleGrades"`
	ModuleSubjectIDs     string    `gorm:"column:module_subject_ids" json:"learningModuleSubjects"`
	ModuleCreatedByIDs   string    `gorm:"column:module_created_by_ids" json:"learningModuleCreatedBy"`
	ModuleTagIDs         string    `gorm:"column:module_tag_ids" json:"learningModuleTags"`
}

func (UserSettings) TableName() string { return "user_settings" }

// JoinIDs serializes ids the way UserSettings stores them.
func JoinIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}

// SplitIDs parses a stored id list, skipping blanks and malformed entries.
func SplitIDs(raw string) []uuid.UUID {
	out := []uuid.UUID{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
