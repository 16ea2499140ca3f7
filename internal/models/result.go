package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PipelineIndex  = "index"
	PipelineSearch = "search"
)

// ResultEvent is the outcome of one pipeline invocation, published to the
// results feed for dashboards and the API's WebSocket broadcast.
type ResultEvent struct {
	ID         uuid.UUID         `json:"id"`
	Pipeline   string            `json:"pipeline"`
	StatusCode int               `json:"status_code"`
	Processed  []ProcessedUpload `json:"processed,omitempty"`
	SocketID   string            `json:"socket_id,omitempty"`
	People     []string          `json:"people,omitempty"`
	Error      string            `json:"error,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
