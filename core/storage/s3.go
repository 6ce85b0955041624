package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	appconfig "realite-api/core/config"
	"realite-api/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MediaStore stores uploaded media and returns a public URL.
type MediaStore interface {
	UploadBase64Image(ctx context.Context, base64Src, key string) (string, error)
}

type s3Store struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Store builds an S3-backed media store from config. Returns nil (and no
// error) when the bucket is not configured, so media upload degrades to a
// disabled feature instead of failing startup.
func NewS3Store(cfg appconfig.AWSConfig) (MediaStore, error) {
	if cfg.Bucket == "" {
		logger.Warn("S3Store:Disabled", "reason", "aws.bucket not configured")
		return nil, nil
	}

	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}

	return &s3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// UploadBase64Image uploads a base64-encoded image (optionally with a
// data-URI prefix) under the given key and returns its URL.
func (s *s3Store) UploadBase64Image(ctx context.Context, base64Src, key string) (string, error) {
	if base64Src == "" {
		return "", fmt.Errorf("empty image payload")
	}

	payload := base64Src
	if i := strings.Index(base64Src, ","); i != -1 {
		payload = base64Src[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode image payload: %w", err)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("S3Store:UploadBase64Image:PutObject:Error", "key", key, "error", err)
		return "", err
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	logger.Info("S3Store:UploadBase64Image:Success", "key", key, "content_type", contentType)
	return url, nil
}
