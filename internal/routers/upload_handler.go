package routers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"khawam-pro/pkg/middleware/render"
	"khawam-pro/internal/service"
)

const maxUploadBytes = 20 << 20

// UploadHandler stores customer design files and runs them through the
// remote file analyzer.
type UploadHandler struct {
	analysis  *service.FileAnalysisService
	uploadDir string
	logger    *zap.Logger
}

func NewUploadHandler(analysis *service.FileAnalysisService, uploadDir string, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{analysis: analysis, uploadDir: uploadDir, logger: logger}
}

func (h *UploadHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/uploads", h.Upload)
	api.POST("/uploads/analyze", h.Analyze)
}

// Upload stores a design file and returns its public URL along with the
// normalized attachment metadata the client renders.
// @Summary Upload a design file
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "design file"
// @Success 200 {object} render.Response
// @Router /api/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		render.BadRequest(c, "missing file field")
		return
	}
	if file.Size > maxUploadBytes {
		render.BadRequest(c, "file exceeds the 20MB upload limit")
		return
	}

	// Keep the extension, replace the name: client filenames are not
	// safe as disk paths.
	ext := strings.ToLower(filepath.Ext(file.Filename))
	stored := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, stored)); err != nil {
		h.logger.Error("saving upload", zap.String("file", file.Filename), zap.Error(err))
		render.InternalServerError(c, "failed to store file")
		return
	}

	url := "/uploads/" + stored
	attachment := service.NormalizeAttachment(service.RawAttachment{
		URL:      url,
		Filename: file.Filename,
		Mime:     file.Header.Get("Content-Type"),
		Size:     file.Size,
	})

	h.logger.Info("design file stored",
		zap.String("original", file.Filename),
		zap.String("stored", stored),
		zap.Int64("bytes", file.Size))

	render.Success(c, gin.H{
		"url":        url,
		"attachment": attachment,
	})
}

// Analyze proxies an uploaded file to the remote analyzer and returns its
// dimensions, DPI and warnings.
// @Summary Analyze a design file
// @Tags uploads
// @Accept json
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/uploads/analyze [post]
func (h *UploadHandler) Analyze(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err.Error())
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		render.UnprocessableEntity(c, fmt.Sprintf("analysis unavailable: %v", err))
		return
	}
	render.Success(c, result)
}
