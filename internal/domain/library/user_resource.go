package library

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/domain/content"
)

// UserResource records a resource saved by a user.
type UserResource struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_user_resource,priority:1" json:"userId"`
	ResourceID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_user_resource,priority:2" json:"resourceId"`
	Resource   *content.Resource `gorm:"foreignKey:ResourceID;references:ID;constraint:OnDelete:RESTRICT" json:"resource,omitempty"`
	CreatedAt  time.Time         `gorm:"not null" json:"createdOn"`
}

func (UserResource) TableName() string { return "user_resource" }

func (u *UserResource) EnsureID() {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
}

// UserLearningModule records a learning module saved by a user.
type UserLearningModule struct {
	ID               uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_user_learning_module,priority:1" json:"userId"`
	LearningModuleID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_user_learning_module,priority:2" json:"learningModuleId"`
	LearningModule   *content.LearningModule `gorm:"foreignKey:LearningModuleID;references:ID;constraint:OnDelete:RESTRICT" json:"learningModule,omitempty"`
	CreatedAt        time.Time               `gorm:"not null" json:"createdOn"`
}

func (UserLearningModule) TableName() string { return "user_learning_module" }

func (u *UserLearningModule) EnsureID() {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
}
