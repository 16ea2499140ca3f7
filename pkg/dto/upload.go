package dto

import (
	"encoding/json"

	"github.com/your-org/facepipe/internal/models"
)

// UploadResponse is one uploads-table row as served by the API.
type UploadResponse struct {
	ID              int64           `json:"id"`
	StorageBucket   string          `json:"storage_bucket"`
	StorageKey      string          `json:"storage_key"`
	FaceIndexResult json.RawMessage `json:"face_index_result"`
	CreatedAt       string          `json:"created_at"`
}

type UploadListResponse struct {
	Uploads []UploadResponse `json:"uploads"`
	Total   int              `json:"total"`
}

// WSResult is a WebSocket message carrying one pipeline invocation result.
type WSResult struct {
	Type     string             `json:"type"` // always "result"
	Pipeline string             `json:"pipeline"`
	Data     models.ResultEvent `json:"data"`
}
