// Package recognition wraps the managed face-recognition service. Detection,
// embedding, and matching all happen on the service side; this package only
// marshals parameters and flattens responses into domain types.
package recognition

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// IndexedFace is one face the service registered in the collection.
type IndexedFace struct {
	FaceID  string
	ImageID string
}

// UnindexedFace is one detected face the service rejected, with its reason
// codes (e.g. LOW_QUALITY, EXCEEDS_MAX_FACES).
type UnindexedFace struct {
	Reasons []string
}

// IndexOutput is the flattened response of one face-indexing call.
type IndexOutput struct {
	Indexed   []IndexedFace
	Unindexed []UnindexedFace
}

// Match is one similarity-search hit.
type Match struct {
	FaceID     string
	Similarity float32
}

// ServiceError reports a rejected or failed recognition-service call.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "recognition service: " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// LoadAWSConfig resolves the AWS client configuration, preferring the
// configured region and falling back to the ambient environment.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	if region != "" {
		return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	}
	return awsconfig.LoadDefaultConfig(ctx)
}
