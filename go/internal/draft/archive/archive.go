package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=mocks/mock_putter.go -package=mocks github.com/mcdev12/draftroom/go/internal/draft/archive ObjectPutter

// ObjectPutter is the slice of the S3 client the archiver uses
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config describes the bucket completed drafts are written to.
type Config struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// S3Archiver writes the full event log of a finished draft as newline-delimited JSON.
type S3Archiver struct {
	client ObjectPutter
	bucket string
	prefix string
}

// New wraps an existing client.
func New(client ObjectPutter, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// NewFromConfig builds an S3 client. A custom endpoint (MinIO, R2) switches to path-style addressing.
func NewFromConfig(ctx context.Context, cfg Config) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("invalid archive configuration: bucket is required")
	}

	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return New(client, cfg.Bucket, cfg.Prefix), nil
}

// Key is where a draft's log lands in the bucket.
func (a *S3Archiver) Key(draftID uuid.UUID) string {
	name := fmt.Sprintf("drafts/%s.jsonl", draftID)
	if a.prefix == "" {
		return name
	}
	return a.prefix + "/" + name
}

// Archive uploads the log in sequence order.
func (a *S3Archiver) Archive(ctx context.Context, draftID uuid.UUID, evs []events.Event) error {
	if len(evs) == 0 {
		return fmt.Errorf("no events to archive for draft %s", draftID)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, ev := range evs {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("failed to encode event %d: %w", ev.Sequence, err)
		}
	}

	key := a.Key(draftID)
	last := evs[len(evs)-1]
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
		Metadata: map[string]string{
			"draft-id":    draftID.String(),
			"final-event": string(last.Type),
			"events":      fmt.Sprint(len(evs)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload archive (key: %s): %w", key, err)
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Str("key", key).
		Int("events", len(evs)).
		Msg("draft archived")
	return nil
}
