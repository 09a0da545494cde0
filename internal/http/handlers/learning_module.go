package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/http/response"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
	"github.com/yungbote/learnnow-backend/internal/services"
)

type learningModuleRequest struct {
	ID          *uuid.UUID  `json:"id"`
	Title       string      `json:"title" binding:"required,max=300"`
	Description string      `json:"description" binding:"max=1000"`
	ImageURL    string      `json:"imageUrl" binding:"max=2048"`
	GradeID     uuid.UUID   `json:"gradeId" binding:"required"`
	SubjectID   uuid.UUID   `json:"subjectId" binding:"required"`
	TagIDs      []uuid.UUID `json:"tagIds"`
}

func (r learningModuleRequest) input() *services.LearningModuleInput {
	return &services.LearningModuleInput{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		GradeID:     r.GradeID,
		SubjectID:   r.SubjectID,
		TagIDs:      r.TagIDs,
	}
}

type moduleResourcesRequest struct {
	ResourceIDs []uuid.UUID `json:"resourceIds" binding:"required,min=1"`
}

type LearningModuleHandler struct {
	log *logger.Logger
	svc services.LearningModuleService
}

func NewLearningModuleHandler(log *logger.Logger, svc services.LearningModuleService) *LearningModuleHandler {
	return &LearningModuleHandler{log: log.With("handler", "LearningModuleHandler"), svc: svc}
}

// GET /api/learningmodules?page=&gradeIds=&subjectIds=&createdByIds=&tagIds=&searchText=&exactMatch=&excludeEmpty=
func (h *LearningModuleHandler) List(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	q, ok := listQuery(c)
	if !ok {
		return
	}
	out, err := h.svc.List(c.Request.Context(), caller, q)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/learningmodules/:id
func (h *LearningModuleHandler) Get(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_learning_module_id")
	if !ok {
		return
	}
	out, err := h.svc.Get(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/learningmodules
func (h *LearningModuleHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req learningModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	out, err := h.svc.Create(c.Request.Context(), caller, req.input())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// PATCH /api/learningmodules/:id
func (h *LearningModuleHandler) Update(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_learning_module_id")
	if !ok {
		return
	}
	var req learningModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	out, err := h.svc.Update(c.Request.Context(), caller, id, req.input())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/learningmodules/:id
func (h *LearningModuleHandler) Delete(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_learning_module_id")
	if !ok {
		return
	}
	out, err := h.svc.Delete(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/learningmodules/:id/upvote
func (h *LearningModuleHandler) Upvote(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_learning_module_id")
	if !ok {
		return
	}
	if err := h.svc.Upvote(c.Request.Context(), caller, id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, true)
}

// POST /api/learningmodules/:id/downvote
func (h *LearningModuleHandler) Downvote(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_learning_module_id")
	if !ok {
		return
	}
	removed, err := h.svc.Downvote(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if !removed {
		response.RespondMessage(c, "vote not found")
		return
	}
	response.RespondOK(c, true)
}

// GET /api/learningmodules/authors
func (h *LearningModuleHandler) Authors(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	out, err := h.svc.Authors(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/learningmodules/:id/resources
func (h *LearningModuleHandler) Resources(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_learning_module_id")
	if !ok {
		return
	}
	out, err := h.svc.Resources(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/learningmodules/:id/resources
// body: { "resourceIds": ["..."] }
func (h *LearningModuleHandler) AddResources(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_learning_module_id")
	if !ok {
		return
	}
	var req moduleResourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	out, err := h.svc.AddResources(c.Request.Context(), caller, id, req.ResourceIDs)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/learningmodules/:id/resources/:resourceId
func (h *LearningModuleHandler) RemoveResource(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_learning_module_id")
	if !ok {
		return
	}
	resourceID, ok := pathID(c, "resourceId", "invalid_resource_id")
	if !ok {
		return
	}
	if err := h.svc.RemoveResource(c.Request.Context(), caller, id, resourceID); err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, true)
}
