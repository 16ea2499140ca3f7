package recognition

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/your-org/facepipe/internal/observability"
)

const (
	// maxFacesPerImage caps both faces indexed per image and matches
	// returned per search.
	maxFacesPerImage = 10
	// matchThreshold is the minimum similarity (percent) for search hits.
	matchThreshold = 80
)

// RekognitionAPI is the subset of the Rekognition client used here.
type RekognitionAPI interface {
	IndexFaces(ctx context.Context, in *rekognition.IndexFacesInput,
		opts ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error)
	SearchFacesByImage(ctx context.Context, in *rekognition.SearchFacesByImageInput,
		opts ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
}

// RekognitionClient binds a Rekognition client to one face collection.
type RekognitionClient struct {
	api          RekognitionAPI
	collectionID string
}

func NewRekognitionClient(api RekognitionAPI, collectionID string) *RekognitionClient {
	return &RekognitionClient{api: api, collectionID: collectionID}
}

// IndexFaces asks the service to detect and register faces from the image
// bytes, tagged with externalID (the upload's file name).
func (c *RekognitionClient) IndexFaces(ctx context.Context, image []byte, externalID string) (*IndexOutput, error) {
	timer := prometheus.NewTimer(observability.RecognitionDuration.WithLabelValues("index_faces"))
	out, err := c.api.IndexFaces(ctx, &rekognition.IndexFacesInput{
		CollectionId:        aws.String(c.collectionID),
		Image:               &rektypes.Image{Bytes: image},
		ExternalImageId:     aws.String(externalID),
		DetectionAttributes: []rektypes.Attribute{rektypes.AttributeDefault},
		QualityFilter:       rektypes.QualityFilterAuto,
		MaxFaces:            aws.Int32(maxFacesPerImage),
	})
	timer.ObserveDuration()
	if err != nil {
		return nil, &ServiceError{Op: "index faces", Err: err}
	}

	result := &IndexOutput{}
	for _, fr := range out.FaceRecords {
		if fr.Face == nil {
			continue
		}
		result.Indexed = append(result.Indexed, IndexedFace{
			FaceID:  aws.ToString(fr.Face.FaceId),
			ImageID: aws.ToString(fr.Face.ImageId),
		})
	}
	for _, uf := range out.UnindexedFaces {
		face := UnindexedFace{}
		for _, r := range uf.Reasons {
			face.Reasons = append(face.Reasons, string(r))
		}
		result.Unindexed = append(result.Unindexed, face)
	}
	return result, nil
}

// SearchFacesByImage asks the service for collection faces similar to the
// largest face in the probe image.
func (c *RekognitionClient) SearchFacesByImage(ctx context.Context, image []byte) ([]Match, error) {
	timer := prometheus.NewTimer(observability.RecognitionDuration.WithLabelValues("search_faces"))
	out, err := c.api.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(c.collectionID),
		Image:              &rektypes.Image{Bytes: image},
		FaceMatchThreshold: aws.Float32(matchThreshold),
		MaxFaces:           aws.Int32(maxFacesPerImage),
	})
	timer.ObserveDuration()
	if err != nil {
		return nil, &ServiceError{Op: "search faces by image", Err: err}
	}

	var matches []Match
	for _, m := range out.FaceMatches {
		if m.Face == nil || m.Face.FaceId == nil {
			continue
		}
		matches = append(matches, Match{
			FaceID:     aws.ToString(m.Face.FaceId),
			Similarity: aws.ToFloat32(m.Similarity),
		})
	}
	return matches, nil
}
