package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/domain/catalog"
)

// ResourceType tells the tab client how to render a resource's attachment.
type ResourceType int

const (
	ResourceTypeNone ResourceType = iota
	ResourceTypePDF
	ResourceTypeWord
	ResourceTypePowerPoint
	ResourceTypeExcel
	ResourceTypeWeb
)

func (t ResourceType) Valid() bool {
	return t >= ResourceTypeNone && t <= ResourceTypeWeb
}

type Resource struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string           `gorm:"column:title;not null;size:300;uniqueIndex:idx_resource_title" json:"title"`
	Description   string           `gorm:"column:description;not null;size:1000" json:"description"`
	ImageURL      string           `gorm:"column:image_url;not null" json:"imageUrl"`
	LinkURL       *string          `gorm:"column:link_url" json:"linkUrl,omitempty"`
	AttachmentURL *string          `gorm:"column:attachment_url" json:"attachmentUrl,omitempty"`
	ResourceType  ResourceType     `gorm:"column:resource_type;not null;default:0" json:"resourceType"`
	GradeID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"gradeId"`
	Grade         *catalog.Grade   `gorm:"foreignKey:GradeID;references:ID;constraint:OnDelete:RESTRICT" json:"grade,omitempty"`
	SubjectID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"subjectId"`
	Subject       *catalog.Subject `gorm:"foreignKey:SubjectID;references:ID;constraint:OnDelete:RESTRICT" json:"subject,omitempty"`
	catalog.Audit
}

func (Resource) TableName() string { return "resource" }

func (r *Resource) EnsureID() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
}

type ResourceTag struct {
	ResourceID uuid.UUID    `gorm:"type:uuid;primaryKey" json:"resourceId"`
	TagID      uuid.UUID    `gorm:"type:uuid;primaryKey;index" json:"tagId"`
	Tag        *catalog.Tag `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:RESTRICT" json:"tag,omitempty"`
}

func (ResourceTag) TableName() string { return "resource_tag" }

type ResourceVote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_resource_vote_user,priority:2" json:"resourceId"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_resource_vote_user,priority:1" json:"userId"`
	CreatedAt  time.Time `gorm:"not null" json:"createdOn"`
}

func (ResourceVote) TableName() string { return "resource_vote" }

func (v *ResourceVote) EnsureID() {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
}
