package domain

import (
	"github.com/yungbote/learnnow-backend/internal/domain/catalog"
	"github.com/yungbote/learnnow-backend/internal/domain/content"
	"github.com/yungbote/learnnow-backend/internal/domain/library"
	"github.com/yungbote/learnnow-backend/internal/domain/teams"
)

type (
	Audit   = catalog.Audit
	Grade   = catalog.Grade
	Subject = catalog.Subject
	Tag     = catalog.Tag

	ResourceType          = content.ResourceType
	Resource              = content.Resource
	ResourceTag           = content.ResourceTag
	ResourceVote          = content.ResourceVote
	LearningModule        = content.LearningModule
	LearningModuleTag     = content.LearningModuleTag
	LearningModuleVote    = content.LearningModuleVote
	ResourceModuleMapping = content.ResourceModuleMapping

	UserResource       = library.UserResource
	UserLearningModule = library.UserLearningModule
	UserSettings       = library.UserSettings

	TabConfiguration = teams.TabConfiguration
)

const (
	ResourceTypeNone       = content.ResourceTypeNone
	ResourceTypePDF        = content.ResourceTypePDF
	ResourceTypeWord       = content.ResourceTypeWord
	ResourceTypePowerPoint = content.ResourceTypePowerPoint
	ResourceTypeExcel      = content.ResourceTypeExcel
	ResourceTypeWeb        = content.ResourceTypeWeb
)

var (
	NewAudit = catalog.NewAudit
	JoinIDs  = library.JoinIDs
	SplitIDs = library.SplitIDs
)

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&Grade{},
		&Subject{},
		&Tag{},
		&Resource{},
		&ResourceTag{},
		&ResourceVote{},
		&LearningModule{},
		&LearningModuleTag{},
		&LearningModuleVote{},
		&ResourceModuleMapping{},
		&UserResource{},
		&UserLearningModule{},
		&UserSettings{},
		&TabConfiguration{},
	}
}
