package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
	"github.com/yungbote/learnnow-backend/internal/services"
)

type Services struct {
	Auth             services.AuthService
	Grade            services.CatalogService
	Subject          services.CatalogService
	Tag              services.CatalogService
	Resource         services.ResourceService
	LearningModule   services.LearningModuleService
	TabConfiguration services.TabConfigurationService
	UserSettings     services.UserSettingsService
	UserLibrary      services.UserLibraryService
	File             services.FileService
	Image            services.ImageService
	GroupMember      services.GroupMemberService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.Auth)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}
	uows := repos.NewUnitOfWorkFactory(db, log)
	dir := clients.Directory
	membership := clients.Graph

	return Services{
		Auth:             auth,
		Grade:            services.NewGradeService(uows, dir, log),
		Subject:          services.NewSubjectService(uows, dir, log),
		Tag:              services.NewTagService(uows, dir, log),
		Resource:         services.NewResourceService(uows, dir, membership, cfg.Groups, cfg.PageSize, log),
		LearningModule:   services.NewLearningModuleService(uows, dir, membership, cfg.Groups, cfg.PageSize, log),
		TabConfiguration: services.NewTabConfigurationService(uows, dir, log),
		UserSettings:     services.NewUserSettingsService(uows, log),
		UserLibrary:      services.NewUserLibraryService(uows, dir, log),
		File:             services.NewFileService(clients.Blobs, log),
		Image:            services.NewImageService(clients.ImageSearch, log),
		GroupMember:      services.NewGroupMemberService(membership, cfg.Groups, log),
	}, nil
}
