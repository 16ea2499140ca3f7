package models

import (
	"encoding/json"
	"time"
)

// UploadEvent is the S3-compatible bucket notification MinIO publishes to
// NATS when an object upload completes. Object keys arrive percent-encoded.
type UploadEvent struct {
	Records []EventRecord `json:"Records"`
}

type EventRecord struct {
	EventName string   `json:"eventName,omitempty"`
	S3        S3Entity `json:"s3"`
}

type S3Entity struct {
	Bucket S3Bucket `json:"bucket"`
	Object S3Object `json:"object"`
}

type S3Bucket struct {
	Name string `json:"name"`
}

type S3Object struct {
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
}

// FaceIndexResult summarizes one face-indexing call. It is persisted verbatim
// as the upload row's JSON blob and later scanned by face id during search.
type FaceIndexResult struct {
	IndexedCount     int      `json:"indexed_count"`
	FaceIDs          []string `json:"face_ids"`
	ImageID          *string  `json:"image_id"`
	UnindexedReasons []string `json:"unindexed_reasons"`
}

// UploadRecord is one row of the uploads table.
type UploadRecord struct {
	ID              int64           `json:"id"`
	StorageBucket   string          `json:"storage_bucket"`
	StorageKey      string          `json:"storage_key"`
	FaceIndexResult json.RawMessage `json:"face_index_result"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ProcessedUpload is one entry of an ingest invocation's summary.
type ProcessedUpload struct {
	Bucket string          `json:"bucket"`
	Key    string          `json:"key"`
	Result FaceIndexResult `json:"result"`
}
