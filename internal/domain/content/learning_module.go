package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/domain/catalog"
)

type LearningModule struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string           `gorm:"column:title;not null;size:300;uniqueIndex:idx_learning_module_title" json:"title"`
	Description string           `gorm:"column:description;not null;size:1000" json:"description"`
	ImageURL    string           `gorm:"column:image_url;not null" json:"imageUrl"`
	GradeID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"gradeId"`
	Grade       *catalog.Grade   `gorm:"foreignKey:GradeID;references:ID;constraint:OnDelete:RESTRICT" json:"grade,omitempty"`
	SubjectID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"subjectId"`
	Subject     *catalog.Subject `gorm:"foreignKey:SubjectID;references:ID;constraint:OnDelete:RESTRICT" json:"subject,omitempty"`
	catalog.Audit
}

func (LearningModule) TableName() string { return "learning_module" }

func (m *LearningModule) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

type LearningModuleTag struct {
	LearningModuleID uuid.UUID    `gorm:"type:uuid;primaryKey" json:"learningModuleId"`
	TagID            uuid.UUID    `gorm:"type:uuid;primaryKey;index" json:"tagId"`
	Tag              *catalog.Tag `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:RESTRICT" json:"tag,omitempty"`
}

func (LearningModuleTag) TableName() string { return "learning_module_tag" }

type LearningModuleVote struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LearningModuleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_learning_module_vote_user,priority:2" json:"learningModuleId"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_learning_module_vote_user,priority:1" json:"userId"`
	CreatedAt        time.Time `gorm:"not null" json:"createdOn"`
}

func (LearningModuleVote) TableName() string { return "learning_module_vote" }

func (v *LearningModuleVote) EnsureID() {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
}

// ResourceModuleMapping links a resource into a learning module.
type ResourceModuleMapping struct {
	ResourceID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"resourceId"`
	Resource         *Resource `gorm:"foreignKey:ResourceID;references:ID;constraint:OnDelete:RESTRICT" json:"resource,omitempty"`
	LearningModuleID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"learningModuleId"`
	CreatedBy        uuid.UUID `gorm:"type:uuid;not null" json:"createdBy"`
	CreatedAt        time.Time `gorm:"not null" json:"createdOn"`
}

func (ResourceModuleMapping) TableName() string { return "resource_module_mapping" }
