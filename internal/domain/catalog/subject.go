package catalog

import "github.com/google/uuid"

type Subject struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:subject_name;not null;size:200;uniqueIndex:idx_subject_name" json:"subjectName"`
	Audit
}

func (Subject) TableName() string { return "subject" }

func (s *Subject) EnsureID() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
}

func (s *Subject) GetID() uuid.UUID { return s.ID }
func (s *Subject) GetName() string { return s.Name }
func (s *Subject) SetName(name string) { s.Name = name }
