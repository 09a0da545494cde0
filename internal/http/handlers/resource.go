package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/http/response"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
	"github.com/yungbote/learnnow-backend/internal/services"
)

type resourceRequest struct {
	ID            *uuid.UUID         `json:"id"`
	Title         string             `json:"title" binding:"required,max=300"`
	Description   string             `json:"description" binding:"max=1000"`
	ImageURL      string             `json:"imageUrl" binding:"max=2048"`
	LinkURL       *string            `json:"linkUrl" binding:"omitempty,max=2048"`
	AttachmentURL *string            `json:"attachmentUrl" binding:"omitempty,max=2048"`
	ResourceType  types.ResourceType `json:"resourceType"`
	GradeID       uuid.UUID          `json:"gradeId" binding:"required"`
	SubjectID     uuid.UUID          `json:"subjectId" binding:"required"`
	TagIDs        []uuid.UUID        `json:"tagIds"`
}

func (r resourceRequest) input() *services.ResourceInput {
	return &services.ResourceInput{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		LinkURL:       r.LinkURL,
		AttachmentURL: r.AttachmentURL,
		ResourceType:  r.ResourceType,
		GradeID:       r.GradeID,
		SubjectID:     r.SubjectID,
		TagIDs:        r.TagIDs,
	}
}

type ResourceHandler struct {
	log *logger.Logger
	svc services.ResourceService
}

func NewResourceHandler(log *logger.Logger, svc services.ResourceService) *ResourceHandler {
	return &ResourceHandler{log: log.With("handler", "ResourceHandler"), svc: svc}
}

// GET /api/resources?page=&gradeIds=&subjectIds=&createdByIds=&tagIds=&searchText=&exactMatch=
func (h *ResourceHandler) List(c *gin.Context) {
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

// GET /api/resources/:id
func (h *ResourceHandler) Get(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_resource_id")
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

// POST /api/resources
func (h *ResourceHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req resourceRequest
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

// PATCH /api/resources/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_resource_id")
	if !ok {
		return
	}
	var req resourceRequest
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

// DELETE /api/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_resource_id")
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

// POST /api/resources/:id/upvote
func (h *ResourceHandler) Upvote(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_resource_id")
	if !ok {
		return
	}
	if err := h.svc.Upvote(c.Request.Context(), caller, id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, true)
}

// POST /api/resources/:id/downvote
func (h *ResourceHandler) Downvote(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_resource_id")
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

// GET /api/resources/authors
func (h *ResourceHandler) Authors(c *gin.Context) {
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
