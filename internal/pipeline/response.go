package pipeline

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/facepipe/internal/models"
)

// IndexResult adapts an ingest invocation's typed outcome to the result
// envelope published on the feed: 200-equivalent with the processed summary,
// or 500-equivalent with the error message.
func IndexResult(summary *IndexSummary, err error) models.ResultEvent {
	ev := models.ResultEvent{
		ID:        uuid.New(),
		Pipeline:  models.PipelineIndex,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		ev.StatusCode = http.StatusInternalServerError
		ev.Error = err.Error()
		return ev
	}
	ev.StatusCode = http.StatusOK
	ev.Processed = summary.Processed
	return ev
}

// SearchResult adapts a search invocation's outcome the same way. The search
// pipeline has no outward return contract; the envelope exists for the feed.
func SearchResult(outcome *SearchOutcome, err error) models.ResultEvent {
	ev := models.ResultEvent{
		ID:        uuid.New(),
		Pipeline:  models.PipelineSearch,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		ev.StatusCode = http.StatusInternalServerError
		ev.Error = err.Error()
		return ev
	}
	ev.StatusCode = http.StatusOK
	ev.SocketID = outcome.SocketID
	ev.People = outcome.People
	return ev
}
