package pipeline

import (
	"context"
	"log/slog"

	"github.com/your-org/facepipe/internal/models"
	"github.com/your-org/facepipe/internal/objectkey"
	"github.com/your-org/facepipe/internal/observability"
	"github.com/your-org/facepipe/internal/recognition"
)

// Indexer runs the ingest-and-index workflow: for every upload notification,
// register the image's faces in the collection and append an upload record.
type Indexer struct {
	repo    Repository
	objects ObjectFetcher
	rec     Recognizer
}

func NewIndexer(repo Repository, objects ObjectFetcher, rec Recognizer) *Indexer {
	return &Indexer{repo: repo, objects: objects, rec: rec}
}

// IndexSummary lists every notification the invocation processed.
type IndexSummary struct {
	Processed []models.ProcessedUpload
}

// Handle processes one upload event. Records missing a bucket or key are
// skipped with a warning; any other failure aborts the batch at that point.
// Rows inserted before the failure stay committed.
func (ix *Indexer) Handle(ctx context.Context, event models.UploadEvent) (*IndexSummary, error) {
	summary := &IndexSummary{Processed: []models.ProcessedUpload{}}
	if len(event.Records) == 0 {
		slog.Warn("no records in upload event, nothing to do")
		return summary, nil
	}

	if err := ix.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	for _, rec := range event.Records {
		bucket := rec.S3.Bucket.Name
		rawKey := rec.S3.Object.Key
		if bucket == "" || rawKey == "" {
			slog.Warn("skipping record missing bucket or key", "bucket", bucket, "key", rawKey)
			observability.RecordsSkipped.WithLabelValues(models.PipelineIndex).Inc()
			continue
		}

		key, err := objectkey.Decode(rawKey)
		if err != nil {
			slog.Warn("skipping record with undecodable key", "key", rawKey, "error", err)
			observability.RecordsSkipped.WithLabelValues(models.PipelineIndex).Inc()
			continue
		}
		slog.Info("processing upload", "bucket", bucket, "key", key)

		image, err := ix.objects.GetObject(ctx, bucket, key)
		if err != nil {
			return nil, err
		}

		out, err := ix.rec.IndexFaces(ctx, image, objectkey.ExternalID(key))
		if err != nil {
			return nil, err
		}

		result := summarizeIndexOutput(out)
		slog.Info("indexing result",
			"bucket", bucket, "key", key,
			"indexed_count", result.IndexedCount,
			"unindexed", len(result.UnindexedReasons),
		)

		if _, err := ix.repo.InsertUpload(ctx, bucket, key, result); err != nil {
			return nil, err
		}

		summary.Processed = append(summary.Processed, models.ProcessedUpload{
			Bucket: bucket,
			Key:    key,
			Result: result,
		})
		observability.RecordsProcessed.WithLabelValues(models.PipelineIndex).Inc()
		observability.FacesIndexed.Add(float64(result.IndexedCount))
		observability.FacesUnindexed.Add(float64(len(result.UnindexedReasons)))
	}

	return summary, nil
}

// summarizeIndexOutput flattens a service response into the persisted shape:
// count and ids of indexed faces, the first face's image id, and the union of
// all rejection reasons (not deduplicated).
func summarizeIndexOutput(out *recognition.IndexOutput) models.FaceIndexResult {
	result := models.FaceIndexResult{
		IndexedCount:     len(out.Indexed),
		FaceIDs:          []string{},
		UnindexedReasons: []string{},
	}
	for _, face := range out.Indexed {
		result.FaceIDs = append(result.FaceIDs, face.FaceID)
	}
	if len(out.Indexed) > 0 {
		imageID := out.Indexed[0].ImageID
		result.ImageID = &imageID
	}
	for _, face := range out.Unindexed {
		result.UnindexedReasons = append(result.UnindexedReasons, face.Reasons...)
	}
	return result
}
