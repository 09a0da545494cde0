package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/learnnow-backend/internal/http/handlers"
	httpMW "github.com/yungbote/learnnow-backend/internal/http/middleware"
	"github.com/yungbote/learnnow-backend/internal/observability"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	GradeHandler            *httpH.CatalogHandler
	SubjectHandler          *httpH.CatalogHandler
	TagHandler              *httpH.CatalogHandler
	ResourceHandler         *httpH.ResourceHandler
	LearningModuleHandler   *httpH.LearningModuleHandler
	TabConfigurationHandler *httpH.TabConfigurationHandler
	UserHandler             *httpH.UserHandler
	FileHandler             *httpH.FileHandler
	ImageHandler            *httpH.ImageHandler
	GroupMemberHandler      *httpH.GroupMemberHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "learnnow"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))
	r.Use(httpMW.RecordPanics(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Grades, subjects, tags
		for path, h := range map[string]*httpH.CatalogHandler{
			"/grade":   cfg.GradeHandler,
			"/subject": cfg.SubjectHandler,
			"/tag":     cfg.TagHandler,
		} {
			if h == nil {
				continue
			}
			api.GET(path, h.List)
			api.GET(path+"/:id", h.Get)
			api.POST(path, h.Create)
			api.PATCH(path+"/:id", h.Update)
			api.DELETE(path+"/:id", h.Delete)
		}

		// Resources
		if h := cfg.ResourceHandler; h != nil {
			api.GET("/resources", h.List)
			api.GET("/resources/authors", h.Authors)
			api.GET("/resources/:id", h.Get)
			api.POST("/resources", h.Create)
			api.PATCH("/resources/:id", h.Update)
			api.DELETE("/resources/:id", h.Delete)
			api.POST("/resources/:id/upvote", h.Upvote)
			api.POST("/resources/:id/downvote", h.Downvote)
		}

		// Learning modules
		if h := cfg.LearningModuleHandler; h != nil {
			api.GET("/learningmodules", h.List)
			api.GET("/learningmodules/authors", h.Authors)
			api.GET("/learningmodules/:id", h.Get)
			api.POST("/learningmodules", h.Create)
			api.PATCH("/learningmodules/:id", h.Update)
			api.DELETE("/learningmodules/:id", h.Delete)
			api.POST("/learningmodules/:id/upvote", h.Upvote)
			api.POST("/learningmodules/:id/downvote", h.Downvote)
			api.GET("/learningmodules/:id/resources", h.Resources)
			api.POST("/learningmodules/:id/resources", h.AddResources)
			api.DELETE("/learningmodules/:id/resources/:resourceId", h.RemoveResource)
		}

		// Tab configuration
		if h := cfg.TabConfigurationHandler; h != nil {
			api.GET("/tab-configuration", h.Lookup)
			api.GET("/tab-configuration/:id", h.Get)
			api.POST("/tab-configuration", h.Create)
			api.PATCH("/tab-configuration/:id", h.Update)
			api.DELETE("/tab-configuration/:id", h.Delete)
		}

		// User settings and library (Me)
		if h := cfg.UserHandler; h != nil {
			api.GET("/usersettings", h.GetSettings)
			api.POST("/usersettings", h.CreateSettings)
			api.PATCH("/usersettings/:userId", h.UpdateSettings)
			api.GET("/me/resources", h.SavedResources)
			api.POST("/me/resources/:resourceId", h.SaveResource)
			api.DELETE("/me/resources/:resourceId", h.RemoveResource)
			api.GET("/me/learningmodules", h.SavedLearningModules)
			api.POST("/me/learningmodules/:learningModuleId", h.SaveLearningModule)
			api.DELETE("/me/learningmodules/:learningModuleId", h.RemoveLearningModule)
		}

		// Files
		if h := cfg.FileHandler; h != nil {
			api.POST("/file/upload", h.Upload)
			api.GET("/file/download", h.Download)
		}

		if h := cfg.ImageHandler; h != nil {
			api.GET("/image", h.Search)
		}

		if h := cfg.GroupMemberHandler; h != nil {
			api.GET("/groupmember/:groupId", h.IsMember)
		}
	}

	return r
}
