package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnnow-backend/internal/http"
	httpH "github.com/yungbote/learnnow-backend/internal/http/handlers"
	httpMW "github.com/yungbote/learnnow-backend/internal/http/middleware"
	"github.com/yungbote/learnnow-backend/internal/observability"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health           *httpH.HealthHandler
	Grade            *httpH.CatalogHandler
	Subject          *httpH.CatalogHandler
	Tag              *httpH.CatalogHandler
	Resource         *httpH.ResourceHandler
	LearningModule   *httpH.LearningModuleHandler
	TabConfiguration *httpH.TabConfigurationHandler
	User             *httpH.UserHandler
	File             *httpH.FileHandler
	Image            *httpH.ImageHandler
	GroupMember      *httpH.GroupMemberHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:           httpH.NewHealthHandler(),
		Grade:            httpH.NewCatalogHandler(log, "grade", services.Grade),
		Subject:          httpH.NewCatalogHandler(log, "subject", services.Subject),
		Tag:              httpH.NewCatalogHandler(log, "tag", services.Tag),
		Resource:         httpH.NewResourceHandler(log, services.Resource),
		LearningModule:   httpH.NewLearningModuleHandler(log, services.LearningModule),
		TabConfiguration: httpH.NewTabConfigurationHandler(log, services.TabConfiguration),
		User:             httpH.NewUserHandler(log, services.UserSettings, services.UserLibrary),
		File:             httpH.NewFileHandler(log, services.File),
		Image:            httpH.NewImageHandler(log, services.Image),
		GroupMember:      httpH.NewGroupMemberHandler(log, services.GroupMember),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:                     log,
		ServiceName:             cfg.Otel.ServiceName,
		CORSOrigins:             cfg.CORSOrigins,
		Metrics:                 metrics,
		AuthMiddleware:          middleware.Auth,
		HealthHandler:           handlers.Health,
		GradeHandler:            handlers.Grade,
		SubjectHandler:          handlers.Subject,
		TagHandler:              handlers.Tag,
		ResourceHandler:         handlers.Resource,
		LearningModuleHandler:   handlers.LearningModule,
		TabConfigurationHandler: handlers.TabConfiguration,
		UserHandler:             handlers.User,
		FileHandler:             handlers.File,
		ImageHandler:            handlers.Image,
		GroupMemberHandler:      handlers.GroupMember,
	})
}
