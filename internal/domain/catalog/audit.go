package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Audit records who created and last changed a row. It is embedded by every
// user-authored entity.
type Audit struct {
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"createdBy"`
	CreatedAt time.Time `gorm:"not null" json:"createdOn"`
	UpdatedBy uuid.UUID `gorm:"type:uuid;not null" json:"updatedBy"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updatedOn"`
}

func NewAudit(by uuid.UUID) Audit {
	return Audit{CreatedBy: by, UpdatedBy: by}
}

func (a *Audit) GetAudit() *Audit { return a }

func (a *Audit) Touch(by uuid.UUID) {
	a.UpdatedBy = by
}
