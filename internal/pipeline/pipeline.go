// Package pipeline holds the two upload-triggered workflows: ingest-and-index
// and search-and-notify. Both are thin orchestrations over injected
// collaborators; all face detection and matching is delegated to the
// recognition service.
package pipeline

import (
	"context"

	"github.com/your-org/facepipe/internal/models"
	"github.com/your-org/facepipe/internal/recognition"
)

// Repository is the uploads-table seam. The face-id lookup hides the
// substring-scan storage strategy so it can be replaced without touching
// pipeline logic.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	InsertUpload(ctx context.Context, bucket, key string, result models.FaceIndexResult) (int64, error)
	FindUploadByFaceID(ctx context.Context, faceID string) (*models.UploadRecord, error)
}

// ObjectFetcher reads uploaded image bytes from object storage.
type ObjectFetcher interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Recognizer is the managed face-recognition service, bound to a collection.
type Recognizer interface {
	IndexFaces(ctx context.Context, image []byte, externalID string) (*recognition.IndexOutput, error)
	SearchFacesByImage(ctx context.Context, image []byte) ([]recognition.Match, error)
}

// Notifier pushes a search outcome to a waiting client.
type Notifier interface {
	Notify(ctx context.Context, socketID string, people []string) error
}
