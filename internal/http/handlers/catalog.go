package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/http/response"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
	"github.com/yungbote/learnnow-backend/internal/services"
)

// catalogRequest carries the name under the kind-specific key the client
// sends (gradeName, subjectName or tagName).
type catalogRequest struct {
	ID          *uuid.UUID `json:"id"`
	GradeName   string     `json:"gradeName"`
	SubjectName string     `json:"subjectName"`
	TagName     string     `json:"tagName"`
}

func (r catalogRequest) input(kind string) *services.CatalogInput {
	in := &services.CatalogInput{ID: r.ID}
	switch kind {
	case "grade":
		in.Name = r.GradeName
	case "subject":
		in.Name = r.SubjectName
	case "tag":
		in.Name = r.TagName
	}
	return in
}

// CatalogHandler serves one of the grade, subject and tag collections.
type CatalogHandler struct {
	log  *logger.Logger
	kind string
	svc  services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, kind string, svc services.CatalogService) *CatalogHandler {
	return &CatalogHandler{log: log.With("handler", "CatalogHandler", "kind", kind), kind: kind, svc: svc}
}

// GET /api/{kind}
func (h *CatalogHandler) List(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	out, err := h.svc.List(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/{kind}/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_id")
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

// POST /api/{kind}
func (h *CatalogHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req catalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	in := req.input(h.kind)
	out, err := h.svc.Create(c.Request.Context(), caller, in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// PATCH /api/{kind}/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_id")
	if !ok {
		return
	}
	var req catalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	in := req.input(h.kind)
	out, err := h.svc.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/{kind}/:id
func (h *CatalogHandler) Delete(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_id")
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
