package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/corpotravel/trip-management/internal"
)

// Uploader stores receipt files in S3 and hands back a stable URL to
// attach to an expense.
type Uploader struct {
	client  *s3.Client
	manager *manager.Uploader
	bucket  string
	region  string
	presign time.Duration
}

type UploaderAPI interface {
	UploadReceipt(ctx context.Context, body io.Reader, fileName, contentType string) (url, storedName string, err error)
	PresignReceipt(ctx context.Context, key string) (string, error)
}

func NewUploader(ctx context.Context, cfg internal.StorageConfig) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	presign := time.Duration(cfg.PresignExpireMinutes) * time.Minute
	if presign <= 0 {
		presign = 15 * time.Minute
	}

	return &Uploader{
		client:  client,
		manager: manager.NewUploader(client),
		bucket:  cfg.ReceiptsBucket,
		region:  cfg.Region,
		presign: presign,
	}, nil
}

// UploadReceipt writes the file under a date-partitioned key. The original
// name survives only in the stored name suffix so collisions are
// impossible.
func (u *Uploader) UploadReceipt(ctx context.Context, body io.Reader, fileName, contentType string) (string, string, error) {
	key := buildReceiptKey(fileName)

	_, err := u.manager.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("upload receipt: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
	return url, key, nil
}

// PresignReceipt returns a temporary download URL for a stored receipt.
func (u *Uploader) PresignReceipt(ctx context.Context, key string) (string, error) {
	presigner := s3.NewPresignClient(u.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(u.presign))
	if err != nil {
		return "", fmt.Errorf("presign receipt: %w", err)
	}
	return req.URL, nil
}

func buildReceiptKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = sanitize(base)
	return fmt.Sprintf("receipts/%s/%s-%s%s",
		time.Now().Format("2006/01"), uuid.NewString(), base, ext)
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
