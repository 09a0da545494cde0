package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/http/response"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
	"github.com/yungbote/learnnow-backend/internal/services"
)

type tabConfigurationRequest struct {
	ID               *uuid.UUID `json:"id"`
	TeamID           string     `json:"teamId" binding:"max=256"`
	ChannelID        string     `json:"channelId" binding:"max=256"`
	GroupID          string     `json:"groupId" binding:"required,max=256"`
	TabID            string     `json:"tabId" binding:"required,max=256"`
	LearningModuleID uuid.UUID  `json:"learningModuleId" binding:"required"`
}

func (r tabConfigurationRequest) input() *services.TabConfigurationInput {
	return &services.TabConfigurationInput{
		ID:               r.ID,
		TeamID:           r.TeamID,
		ChannelID:        r.ChannelID,
		GroupID:          r.GroupID,
		TabID:            r.TabID,
		LearningModuleID: r.LearningModuleID,
	}
}

type TabConfigurationHandler struct {
	log *logger.Logger
	svc services.TabConfigurationService
}

func NewTabConfigurationHandler(log *logger.Logger, svc services.TabConfigurationService) *TabConfigurationHandler {
	return &TabConfigurationHandler{log: log.With("handler", "TabConfigurationHandler"), svc: svc}
}

// GET /api/tab-configuration?tabId=&groupId=
func (h *TabConfigurationHandler) Lookup(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	out, err := h.svc.GetByTabAndGroup(c.Request.Context(), caller, c.Query("tabId"), c.Query("groupId"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/tab-configuration/:id
func (h *TabConfigurationHandler) Get(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_tab_configuration_id")
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

// POST /api/tab-configuration
func (h *TabConfigurationHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req tabConfigurationRequest
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

// PATCH /api/tab-configuration/:id
func (h *TabConfigurationHandler) Update(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_tab_configuration_id")
	if !ok {
		return
	}
	var req tabConfigurationRequest
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

// DELETE /api/tab-configuration/:id
func (h *TabConfigurationHandler) Delete(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invalid_tab_configuration_id")
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
