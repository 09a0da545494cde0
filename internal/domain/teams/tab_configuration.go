package teams

import (
	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/domain/catalog"
	"github.com/yungbote/learnnow-backend/internal/domain/content"
)

// TabConfiguration pins a learning module to a Teams channel tab.
type TabConfiguration struct {
	ID               uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID           string                  `gorm:"column:team_id;not null" json:"teamId"`
	ChannelID        string                  `gorm:"column:channel_id;not null" json:"channelId"`
	GroupID          string                  `gorm:"column:group_id;not null;uniqueIndex:idx_tab_configuration_tab_group,priority:2" json:"groupId"`
	TabID            string                  `gorm:"column:tab_id;not null;uniqueIndex:idx_tab_configuration_tab_group,priority:1" json:"tabId"`
	LearningModuleID uuid.UUID               `gorm:"type:uuid;not null;index" json:"learningModuleId"`
	LearningModule   *content.LearningModule `gorm:"foreignKey:LearningModuleID;references:ID;constraint:OnDelete:RESTRICT" json:"learningModule,omitempty"`
	catalog.Audit
}

func (TabConfiguration) TableName() string { return "tab_configuration" }

func (t *TabConfiguration) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
}
