package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/facepipe/internal/models"
	"github.com/your-org/facepipe/internal/storage"
	"github.com/your-org/facepipe/pkg/dto"
)

type UploadHandler struct {
	db *storage.PostgresStore
}

func NewUploadHandler(db *storage.PostgresStore) *UploadHandler {
	return &UploadHandler{db: db}
}

func (h *UploadHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	bucket := c.Query("bucket")

	uploads, total, err := h.db.ListUploads(c.Request.Context(), bucket, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.UploadListResponse{
		Uploads: make([]dto.UploadResponse, 0, len(uploads)),
		Total:   total,
	}
	for _, u := range uploads {
		resp.Uploads = append(resp.Uploads, toUploadResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UploadHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload id"})
		return
	}

	upload, err := h.db.GetUpload(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if upload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}

	c.JSON(http.StatusOK, toUploadResponse(*upload))
}

func toUploadResponse(u models.UploadRecord) dto.UploadResponse {
	return dto.UploadResponse{
		ID:              u.ID,
		StorageBucket:   u.StorageBucket,
		StorageKey:      u.StorageKey,
		FaceIndexResult: u.FaceIndexResult,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
	}
}
