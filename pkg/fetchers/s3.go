package fetchers

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/statekit-dev/statekit/pkg/disposer"
)

// S3API is the subset of the S3 client used by S3. *s3.Client satisfies it.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 returns a load function that fetches an object from S3 and yields its
// bytes. The GetObject call is bound to the invocation disposer's context.
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	fetch := fetchers.S3(s3.NewFromConfig(cfg), "my-bucket", "reports/latest.json")
//	p := controller.Go(fetch)
func S3(client S3API, bucket, key string) func(*disposer.Disposer) ([]byte, error) {
	return func(d *disposer.Disposer) ([]byte, error) {
		out, err := client.GetObject(d.Context(), &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("fetchers: get s3://%s/%s: %w", bucket, key, err)
		}
		defer out.Body.Close()

		body, err := io.ReadAll(out.Body)
		if err != nil {
			return nil, fmt.Errorf("fetchers: read s3://%s/%s: %w", bucket, key, err)
		}
		return body, nil
	}
}
