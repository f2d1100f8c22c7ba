package api

import (
	"net/http"

	"liftbrain/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	photoService service.PhotoService
}

func NewUploadHandler(photoService service.PhotoService) *UploadHandler {
	return &UploadHandler{photoService: photoService}
}

type ProgressPhotoRequest struct {
	ContentType string `json:"contentType" binding:"required"`
	FileName    string `json:"fileName" binding:"max=255"`
	FileSize    int64  `json:"fileSize" binding:"omitempty,gt=0"`
}

// CreateProgressPhotoUpload godoc
// @Summary Get a presigned URL to upload a progress photo
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.PhotoUpload
// @Failure 400 {object} gin.H "Unsupported type or too large"
// @Router /uploads/progress-photo [post]
func (h *UploadHandler) CreateProgressPhotoUpload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	var req ProgressPhotoRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.photoService.CreateUploadURL(c.Request.Context(), userID, req.ContentType, req.FileName, req.FileSize)
	if err != nil {
		respondError(c, err, "Unable to create upload link")
		return
	}
	c.JSON(http.StatusOK, upload)
}
