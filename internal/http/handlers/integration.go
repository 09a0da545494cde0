package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnnow-backend/internal/http/response"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
	"github.com/yungbote/learnnow-backend/internal/services"
)

const maxUploadBytes = 50 << 20

type FileHandler struct {
	log *logger.Logger
	svc services.FileService
}

func NewFileHandler(log *logger.Logger, svc services.FileService) *FileHandler {
	return &FileHandler{log: log.With("handler", "FileHandler"), svc: svc}
}

// POST /api/file/upload (multipart/form-data)
// field: "file"
func (h *FileHandler) Upload(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "open_file_failed", err)
		return
	}
	defer f.Close()

	out, err := h.svc.Upload(c.Request.Context(), caller, fh.Filename, f, fh.Header.Get("Content-Type"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/file/download?key=
func (h *FileHandler) Download(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	out, err := h.svc.DownloadURL(c.Request.Context(), caller, c.Query("key"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

type ImageHandler struct {
	log *logger.Logger
	svc services.ImageService
}

func NewImageHandler(log *logger.Logger, svc services.ImageService) *ImageHandler {
	return &ImageHandler{log: log.With("handler", "ImageHandler"), svc: svc}
}

// GET /api/image?searchText=
func (h *ImageHandler) Search(c *gin.Context) {
	if _, ok := callerOrAbort(c); !ok {
		return
	}
	out, err := h.svc.Search(c.Request.Context(), c.Query("searchText"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

type GroupMemberHandler struct {
	log *logger.Logger
	svc services.GroupMemberService
}

func NewGroupMemberHandler(log *logger.Logger, svc services.GroupMemberService) *GroupMemberHandler {
	return &GroupMemberHandler{log: log.With("handler", "GroupMemberHandler"), svc: svc}
}

// GET /api/groupmember/:groupId
// groupId is a security group id or one of the aliases admin, teacher, moderator.
func (h *GroupMemberHandler) IsMember(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	member, err := h.svc.IsMember(c.Request.Context(), caller, c.Param("groupId"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.RespondOK(c, member)
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
