package catalog

import "github.com/google/uuid"

type Grade struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:grade_name;not null;size:200;uniqueIndex:idx_grade_name" json:"gradeName"`
	Audit
}

func (Grade) TableName() string { return "grade" }

func (g *Grade) EnsureID() {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
}

func (g *Grade) GetID() uuid.UUID { return g.ID }
func (g *Grade) GetName() string { return g.Name }
func (g *Grade) SetName(name string) { g.Name = name }
