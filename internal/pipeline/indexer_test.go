package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/your-org/facepipe/internal/recognition"
)

func TestIndexer_EndToEnd(t *testing.T) {
	repo := &fakeRepo{}
	fetcher := &fakeFetcher{objects: map[string][]byte{"imgs/user/42/a.png": []byte("img")}}
	rec := &fakeRecognizer{indexOut: map[string]*recognition.IndexOutput{
		"a.png": {
			Indexed: []recognition.IndexedFace{
				{FaceID: "f-1", ImageID: "i-1"},
				{FaceID: "f-2", ImageID: "i-1"},
			},
			Unindexed: []recognition.UnindexedFace{{Reasons: []string{"LOW_QUALITY"}}},
		},
	}}

	ix := NewIndexer(repo, fetcher, rec)
	summary, err := ix.Handle(context.Background(), eventWith(record("imgs", "user%2F42%2Fa.png")))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if repo.ensureCalls != 1 {
		t.Errorf("EnsureSchema calls = %d, want 1", repo.ensureCalls)
	}
	if len(summary.Processed) != 1 {
		t.Fatalf("processed = %d, want 1", len(summary.Processed))
	}

	p := summary.Processed[0]
	if p.Bucket != "imgs" || p.Key != "user/42/a.png" {
		t.Errorf("processed entry = %s/%s", p.Bucket, p.Key)
	}
	if p.Result.IndexedCount != 2 || len(p.Result.FaceIDs) != 2 {
		t.Errorf("result = %+v", p.Result)
	}
	if p.Result.ImageID == nil || *p.Result.ImageID != "i-1" {
		t.Errorf("image id = %v", p.Result.ImageID)
	}
	if len(p.Result.UnindexedReasons) != 1 || p.Result.UnindexedReasons[0] != "LOW_QUALITY" {
		t.Errorf("unindexed reasons = %v", p.Result.UnindexedReasons)
	}

	if len(repo.inserts) != 1 {
		t.Fatalf("inserts = %d, want 1", len(repo.inserts))
	}
	if repo.inserts[0].key != "user/42/a.png" {
		t.Errorf("inserted key = %q", repo.inserts[0].key)
	}
	if len(rec.externalIDs) != 1 || rec.externalIDs[0] != "a.png" {
		t.Errorf("external ids = %v", rec.externalIDs)
	}
}

func TestIndexer_SkipsRecordsMissingBucketOrKey(t *testing.T) {
	repo := &fakeRepo{}
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"imgs/a.png": []byte("a"),
		"imgs/b.png": []byte("b"),
	}}
	rec := &fakeRecognizer{}

	ix := NewIndexer(repo, fetcher, rec)
	summary, err := ix.Handle(context.Background(), eventWith(
		record("imgs", "a.png"),
		record("", "orphan.png"),
		record("imgs", ""),
		record("imgs", "b.png"),
	))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if len(summary.Processed) != 2 {
		t.Fatalf("processed = %d, want 2 (siblings of skipped records still processed)", len(summary.Processed))
	}
	if summary.Processed[0].Key != "a.png" || summary.Processed[1].Key != "b.png" {
		t.Errorf("processed keys = %v, %v", summary.Processed[0].Key, summary.Processed[1].Key)
	}
}

func TestIndexer_ZeroFaces(t *testing.T) {
	repo := &fakeRepo{}
	fetcher := &fakeFetcher{objects: map[string][]byte{"imgs/empty.png": []byte("x")}}
	rec := &fakeRecognizer{}

	ix := NewIndexer(repo, fetcher, rec)
	summary, err := ix.Handle(context.Background(), eventWith(record("imgs", "empty.png")))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	result := summary.Processed[0].Result
	if result.IndexedCount != 0 {
		t.Errorf("indexed count = %d", result.IndexedCount)
	}
	if result.ImageID != nil {
		t.Errorf("image id should be absent for zero faces, got %v", *result.ImageID)
	}
	if result.FaceIDs == nil || len(result.FaceIDs) != 0 {
		t.Errorf("face ids = %v, want empty non-nil", result.FaceIDs)
	}
}

func TestIndexer_ReasonsAreUnionNotDeduplicated(t *testing.T) {
	repo := &fakeRepo{}
	fetcher := &fakeFetcher{objects: map[string][]byte{"imgs/crowd.png": []byte("x")}}
	rec := &fakeRecognizer{indexOut: map[string]*recognition.IndexOutput{
		"crowd.png": {
			Unindexed: []recognition.UnindexedFace{
				{Reasons: []string{"LOW_QUALITY", "EXCEEDS_MAX_FACES"}},
				{Reasons: []string{"LOW_QUALITY"}},
			},
		},
	}}

	ix := NewIndexer(repo, fetcher, rec)
	summary, err := ix.Handle(context.Background(), eventWith(record("imgs", "crowd.png")))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	reasons := summary.Processed[0].Result.UnindexedReasons
	want := []string{"LOW_QUALITY", "EXCEEDS_MAX_FACES", "LOW_QUALITY"}
	if len(reasons) != len(want) {
		t.Fatalf("reasons = %v, want %v", reasons, want)
	}
	for i := range want {
		if reasons[i] != want[i] {
			t.Errorf("reasons[%d] = %q, want %q", i, reasons[i], want[i])
		}
	}
}

func TestIndexer_EmptyEventIsNoOp(t *testing.T) {
	repo := &fakeRepo{}
	ix := NewIndexer(repo, &fakeFetcher{}, &fakeRecognizer{})

	summary, err := ix.Handle(context.Background(), eventWith())
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(summary.Processed) != 0 {
		t.Errorf("processed = %d, want 0", len(summary.Processed))
	}
	if repo.ensureCalls != 0 {
		t.Errorf("schema should not be touched for an empty event")
	}
}

func TestIndexer_RecognitionErrorAbortsBatch(t *testing.T) {
	repo := &fakeRepo{}
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"imgs/a.png": []byte("a"),
		"imgs/b.png": []byte("b"),
	}}
	svcErr := &recognition.ServiceError{Op: "index faces", Err: errors.New("throttled")}

	// First record succeeds, then the service starts failing.
	rec := &failAfterRecognizer{failAfter: 1, err: svcErr}
	ix := NewIndexer(repo, fetcher, rec)

	_, err := ix.Handle(context.Background(), eventWith(record("imgs", "a.png"), record("imgs", "b.png")))
	if !errors.Is(err, svcErr) {
		t.Fatalf("expected service error to propagate, got %v", err)
	}
	if len(repo.inserts) != 1 {
		t.Errorf("inserts before failure = %d, want 1 (committed rows stay)", len(repo.inserts))
	}
}

type failAfterRecognizer struct {
	fakeRecognizer
	calls     int
	failAfter int
	err       error
}

func (f *failAfterRecognizer) IndexFaces(ctx context.Context, image []byte, externalID string) (*recognition.IndexOutput, error) {
	f.calls++
	if f.calls > f.failAfter {
		return nil, f.err
	}
	return &recognition.IndexOutput{Indexed: []recognition.IndexedFace{{FaceID: "f-ok", ImageID: "i-ok"}}}, nil
}
