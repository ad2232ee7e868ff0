package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/nosso/internal/store"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Prefix    string `yaml:"prefix"`
}

// Enabled reports whether enough is set to reach a bucket.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Remote stores encrypted exports in an S3-compatible bucket.
type Remote struct {
	client s3Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewRemote returns a Remote for cfg, or an error when cfg is incomplete.
func NewRemote(cfg S3Config) (*Remote, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("backup not configured: S3 credentials missing")
	}
	return newRemote(newS3Client(cfg), cfg), nil
}

func newRemote(client s3Client, cfg S3Config) *Remote {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "nosso"
	}
	return &Remote{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Push encrypts the stored blob and uploads it under a timestamped key,
// which it returns.
func (r *Remote) Push(ctx context.Context, blobs *store.BlobStore, passphrase string) (string, error) {
	data, err := Snapshot(ctx, blobs, passphrase)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/backup-%s.json.enc", r.prefix, r.now().Format("2006-01-02T150405Z"))
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	return key, nil
}

// Pull downloads the export stored under key and restores it.
func (r *Remote) Pull(ctx context.Context, blobs *store.BlobStore, key, passphrase string) error {
	result, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return fmt.Errorf("read s3 object: %w", err)
	}
	return Restore(ctx, blobs, data, passphrase)
}

// Delete removes the export stored under key.
func (r *Remote) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from s3: %w", err)
	}
	return nil
}
