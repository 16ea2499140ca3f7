package pipeline

import (
	"errors"
	"testing"

	"github.com/your-org/facepipe/internal/models"
)

func TestIndexResult(t *testing.T) {
	summary := &IndexSummary{Processed: []models.ProcessedUpload{{Bucket: "imgs", Key: "a.png"}}}
	ev := IndexResult(summary, nil)

	if ev.StatusCode != 200 {
		t.Errorf("status = %d, want 200", ev.StatusCode)
	}
	if len(ev.Processed) != 1 || ev.Error != "" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Pipeline != models.PipelineIndex {
		t.Errorf("pipeline = %q", ev.Pipeline)
	}
}

func TestIndexResult_Error(t *testing.T) {
	ev := IndexResult(nil, errors.New("db unreachable"))

	if ev.StatusCode != 500 {
		t.Errorf("status = %d, want 500", ev.StatusCode)
	}
	if ev.Error != "db unreachable" {
		t.Errorf("error = %q", ev.Error)
	}
	if ev.Processed != nil {
		t.Errorf("processed = %v, want absent", ev.Processed)
	}
}

func TestSearchResult(t *testing.T) {
	outcome := &SearchOutcome{SocketID: "abc123", People: []string{"alice"}}
	ev := SearchResult(outcome, nil)

	if ev.StatusCode != 200 || ev.SocketID != "abc123" || len(ev.People) != 1 {
		t.Errorf("event = %+v", ev)
	}
	if ev.Pipeline != models.PipelineSearch {
		t.Errorf("pipeline = %q", ev.Pipeline)
	}
}

func TestSearchResult_Error(t *testing.T) {
	ev := SearchResult(nil, errors.New("recognition service: search faces by image: denied"))
	if ev.StatusCode != 500 || ev.Error == "" {
		t.Errorf("event = %+v", ev)
	}
}
