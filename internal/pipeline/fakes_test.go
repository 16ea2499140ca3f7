package pipeline

import (
	"context"
	"fmt"

	"github.com/your-org/facepipe/internal/models"
	"github.com/your-org/facepipe/internal/recognition"
)

type insertedRow struct {
	bucket string
	key    string
	result models.FaceIndexResult
}

type fakeRepo struct {
	ensureCalls int
	ensureErr   error
	inserts     []insertedRow
	insertErr   error
	byFaceID    map[string]*models.UploadRecord
	findErr     error
}

func (f *fakeRepo) EnsureSchema(ctx context.Context) error {
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeRepo) InsertUpload(ctx context.Context, bucket, key string, result models.FaceIndexResult) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserts = append(f.inserts, insertedRow{bucket: bucket, key: key, result: result})
	return int64(len(f.inserts)), nil
}

func (f *fakeRepo) FindUploadByFaceID(ctx context.Context, faceID string) (*models.UploadRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byFaceID[faceID], nil
}

type fakeFetcher struct {
	objects map[string][]byte
	err     error
}

func (f *fakeFetcher) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("object %s/%s not found", bucket, key)
	}
	return data, nil
}

type fakeRecognizer struct {
	indexOut    map[string]*recognition.IndexOutput
	indexErr    error
	externalIDs []string
	matches     []recognition.Match
	searchErr   error
}

func (f *fakeRecognizer) IndexFaces(ctx context.Context, image []byte, externalID string) (*recognition.IndexOutput, error) {
	if f.indexErr != nil {
		return nil, f.indexErr
	}
	f.externalIDs = append(f.externalIDs, externalID)
	if out, ok := f.indexOut[externalID]; ok {
		return out, nil
	}
	return &recognition.IndexOutput{}, nil
}

func (f *fakeRecognizer) SearchFacesByImage(ctx context.Context, image []byte) ([]recognition.Match, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches, nil
}

type notifyCall struct {
	socketID string
	people   []string
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, socketID string, people []string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, notifyCall{socketID: socketID, people: people})
	return nil
}

func eventWith(records ...models.EventRecord) models.UploadEvent {
	return models.UploadEvent{Records: records}
}

func record(bucket, key string) models.EventRecord {
	return models.EventRecord{S3: models.S3Entity{
		Bucket: models.S3Bucket{Name: bucket},
		Object: models.S3Object{Key: key},
	}}
}

func stored(key, faceID string) *models.UploadRecord {
	return &models.UploadRecord{
		StorageKey:      key,
		FaceIndexResult: []byte(fmt.Sprintf(`{"face_ids":[%q]}`, faceID)),
	}
}
