package catalog

import "github.com/google/uuid"

type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:tag_name;not null;size:200;uniqueIndex:idx_tag_name" json:"tagName"`
	Audit
}

func (Tag) TableName() string { return "tag" }

func (t *Tag) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
}

func (t *Tag) GetID() uuid.UUID { return t.ID }
func (t *Tag) GetName() string { return t.Name }
func (t *Tag) SetName(name string) { t.Name = name }
