package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/http/response"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
	"github.com/yungbote/learnnow-backend/internal/services"
)

type userSettingsRequest struct {
	UserID                  *uuid.UUID  `json:"userId"`
	ResourceGrades          []uuid.UUID `json:"resourceGrades"`
	ResourceSubjects        []uuid.UUID `json:"resourceSubjects"`
	ResourceCreatedBy       []uuid.UUID `json:"resourceCreatedBy"`
	ResourceTags            []uuid.UUID `json:"resourceTags"`
	LearningModuleGrades    []uuid.UUID `json:"learningModuleGrades"`
	LearningModuleSubjects  []uuid.UUID `json:"learningModuleSubjects"`
	LearningModuleCreatedBy []uuid.UUID `json:"learningModuleCreatedBy"`
	LearningModuleTags      []uuid.UUID `json:"learningModuleTags"`
}

func (r userSettingsRequest) input() *services.UserSettingsInput {
	return &services.UserSettingsInput{
		UserID:                  r.UserID,
		ResourceGrades:          r.ResourceGrades,
		ResourceSubjects:        r.ResourceSubjects,
		ResourceCreatedBy:       r.ResourceCreatedBy,
		ResourceTags:            r.ResourceTags,
		LearningModuleGrades:    r.LearningModuleGrades,
		LearningModuleSubjects:  r.LearningModuleSubjects,
		LearningModuleCreatedBy: r.LearningModuleCreatedBy,
		LearningModuleTags:      r.LearningModuleTags,
	}
}

type UserHandler struct {
	log      *logger.Logger
	settings services.UserSettingsService
	library  services.UserLibraryService
}

func NewUserHandler(log *logger.Logger, settings services.UserSettingsService, library services.UserLibraryService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), settings: settings, library: library}
}

// GET /api/usersettings
func (h *UserHandler) GetSettings(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	out, err := h.settings.Get(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/usersettings
func (h *UserHandler) CreateSettings(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req userSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	out, err := h.settings.Create(c.Request.Context(), caller, req.input())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// PATCH /api/usersettings/:userId
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId", "invalid_user_id")
	if !ok {
		return
	}
	var req userSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	out, err := h.settings.Update(c.Request.Context(), caller, userID, req.input())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/me/resources
func (h *UserHandler) SavedResources(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	out, err := h.library.Resources(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/me/resources/:resourceId
func (h *UserHandler) SaveResource(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "resourceId", "invalid_resource_id")
	if !ok {
		return
	}
	out, err := h.library.SaveResource(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/me/resources/:resourceId
func (h *UserHandler) RemoveResource(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "resourceId", "invalid_resource_id")
	if !ok {
		return
	}
	if err := h.library.RemoveResource(c.Request.Context(), caller, id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, true)
}

// GET /api/me/learningmodules
func (h *UserHandler) SavedLearningModules(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	out, err := h.library.LearningModules(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/me/learningmodules/:learningModuleId
func (h *UserHandler) SaveLearningModule(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "learningModuleId", "invalid_learning_module_id")
	if !ok {
		return
	}
	out, err := h.library.SaveLearningModule(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/me/learningmodules/:learningModuleId
func (h *UserHandler) RemoveLearningModule(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "learningModuleId", "invalid_learning_module_id")
	if !ok {
		return
	}
	if err := h.library.RemoveLearningModule(c.Request.Context(), caller, id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, true)
}
