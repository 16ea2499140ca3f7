package pipeline

import (
	"context"
	"log/slog"

	"github.com/your-org/facepipe/internal/models"
	"github.com/your-org/facepipe/internal/objectkey"
	"github.com/your-org/facepipe/internal/observability"
)

// Searcher runs the search-and-notify workflow: similarity-search a probe
// upload against the collection, resolve matched faces to person slugs, and
// push the result to the waiting client.
type Searcher struct {
	repo    Repository
	objects ObjectFetcher
	rec     Recognizer
	// notifier may be nil when no notify target is configured; the
	// pipeline then resolves slugs but sends nothing.
	notifier Notifier
}

func NewSearcher(repo Repository, objects ObjectFetcher, rec Recognizer, notifier Notifier) *Searcher {
	return &Searcher{repo: repo, objects: objects, rec: rec, notifier: notifier}
}

// SearchOutcome is what one search invocation resolved and delivered.
type SearchOutcome struct {
	SocketID string
	People   []string
	Notified bool
}

// Handle processes one probe-upload event. Only the first record of a batch
// is processed; probe uploads arrive one per event by contract.
func (s *Searcher) Handle(ctx context.Context, event models.UploadEvent) (*SearchOutcome, error) {
	outcome := &SearchOutcome{People: []string{}}
	if len(event.Records) == 0 {
		return outcome, nil
	}

	rec := event.Records[0]
	bucket := rec.S3.Bucket.Name
	rawKey := rec.S3.Object.Key
	if bucket == "" || rawKey == "" {
		slog.Warn("missing bucket or key in probe event", "bucket", bucket, "key", rawKey)
		observability.RecordsSkipped.WithLabelValues(models.PipelineSearch).Inc()
		return outcome, nil
	}

	key, err := objectkey.Decode(rawKey)
	if err != nil {
		slog.Warn("undecodable probe key", "key", rawKey, "error", err)
		observability.RecordsSkipped.WithLabelValues(models.PipelineSearch).Inc()
		return outcome, nil
	}
	slog.Info("processing probe upload", "bucket", bucket, "key", key)

	socketID, ok := objectkey.CorrelationID(key)
	if !ok {
		slog.Warn("could not determine socket id from key", "key", key)
	}
	outcome.SocketID = socketID

	image, err := s.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	matches, err := s.rec.SearchFacesByImage(ctx, image)
	if err != nil {
		return nil, err
	}
	observability.SearchMatches.Add(float64(len(matches)))

	seen := map[string]bool{}
	for _, m := range matches {
		if m.FaceID == "" {
			continue
		}
		upload, err := s.repo.FindUploadByFaceID(ctx, m.FaceID)
		if err != nil {
			return nil, err
		}
		if upload == nil {
			continue
		}
		slug, ok := objectkey.Slug(upload.StorageKey)
		if !ok || seen[slug] {
			continue
		}
		seen[slug] = true
		outcome.People = append(outcome.People, slug)
	}

	slog.Info("people resolved", "socket_id", socketID, "people", outcome.People)
	observability.RecordsProcessed.WithLabelValues(models.PipelineSearch).Inc()

	if socketID == "" {
		return outcome, nil
	}
	if s.notifier == nil {
		slog.Warn("notify target not configured, skipping notification", "socket_id", socketID)
		return outcome, nil
	}
	if err := s.notifier.Notify(ctx, socketID, outcome.People); err != nil {
		return nil, err
	}
	outcome.Notified = true
	return outcome, nil
}
