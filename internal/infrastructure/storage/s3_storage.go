package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	domain "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/metrics"
)

// S3Storage serves list/head/delete/presign operations against an
// S3-compatible bucket (R2 in production).
type S3Storage struct {
	bucket    string
	client    *s3.Client
	presigner *s3.PresignClient
	log       zerolog.Logger
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &S3Storage{
		bucket:    cfg.S3Bucket,
		client:    client,
		presigner: s3.NewPresignClient(client),
		log:       logger,
	}, nil
}

// PresignGet mints a time-limited GET URL for a key.
func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	start := time.Now()
	out, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	metrics.RecordPresign(time.Since(start).Seconds())
	return out.URL, nil
}

// Head returns size and modification time for a key.
func (s *S3Storage) Head(ctx context.Context, key string) (*domain.ObjectInfo, error) {
	start := time.Now()
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	metrics.RecordStorageOperation("head", statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("head object %s: %w", key, err)
	}
	info := &domain.ObjectInfo{Key: key}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return info, nil
}

// ListPrefixes returns the top-level grouping prefixes of the bucket.
func (s *S3Storage) ListPrefixes(ctx context.Context) ([]string, error) {
	start := time.Now()
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Delimiter: aws.String("/"),
	})
	metrics.RecordStorageOperation("list", statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("list prefixes: %w", err)
	}
	prefixes := make([]string, 0, len(out.CommonPrefixes))
	for _, common := range out.CommonPrefixes {
		if common.Prefix != nil {
			prefixes = append(prefixes, *common.Prefix)
		}
	}
	return prefixes, nil
}

// ListPage returns one page of objects and the continuation token for the
// next page. An empty returned token means the listing is complete.
func (s *S3Storage) ListPage(ctx context.Context, token string) ([]domain.ObjectInfo, string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	start := time.Now()
	out, err := s.client.ListObjectsV2(ctx, input)
	metrics.RecordStorageOperation("list", statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return nil, "", fmt.Errorf("list objects: %w", err)
	}

	infos := make([]domain.ObjectInfo, 0, len(out.Contents))
	for _, object := range out.Contents {
		if object.Key == nil {
			continue
		}
		info := domain.ObjectInfo{Key: *object.Key}
		if object.Size != nil {
			info.Size = *object.Size
		}
		if object.LastModified != nil {
			info.LastModified = *object.LastModified
		}
		infos = append(infos, info)
	}

	next := ""
	if out.NextContinuationToken != nil {
		next = *out.NextContinuationToken
	}
	return infos, next, nil
}

// Delete removes one object. Deleting an absent key succeeds: S3 DeleteObject
// is a no-op for missing keys.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	metrics.RecordStorageOperation("delete", statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every object under a prefix and returns how many were
// deleted. An empty prefix listing is not an error.
func (s *S3Storage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	deleted := 0
	token := ""
	for {
		input := &s3.ListObjectsV2Input{
			Bucket: aws.String(s.bucket),
			Prefix: aws.String(prefix),
		}
		if token != "" {
			input.ContinuationToken = aws.String(token)
		}
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return deleted, fmt.Errorf("list prefix %s: %w", prefix, err)
		}
		for _, object := range out.Contents {
			if object.Key == nil {
				continue
			}
			if err := s.Delete(ctx, *object.Key); err != nil {
				return deleted, err
			}
			deleted++
		}
		if out.NextContinuationToken == nil {
			return deleted, nil
		}
		token = *out.NextContinuationToken
	}
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
