package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Upload kinds
const (
	KindAvatar    = "avatar"
	KindLogo      = "logo"
	KindPortfolio = "portfolio"
)

const presignExpiry = 15 * time.Minute

var (
	// ErrDisabled is returned when no uploads bucket is configured
	ErrDisabled        = errors.New("uploads are not configured")
	ErrInvalidKind     = errors.New("unsupported upload kind")
	ErrInvalidMimeType = errors.New("unsupported content type")
)

// PresignedUpload is a single-use PUT target
type PresignedUpload struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Uploader hands out presigned S3 PUT URLs. A nil Uploader is disabled.
type Uploader struct {
	presign *s3.PresignClient
	bucket  string
}

// NewUploader returns nil when bucket is empty
func NewUploader(cfg aws.Config, bucket string) *Uploader {
	if bucket == "" {
		return nil
	}
	return &Uploader{
		presign: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket:  bucket,
	}
}

func (u *Uploader) Enabled() bool {
	return u != nil && u.bucket != ""
}

// ObjectKey builds <kind>/<user-id>/<random>
func ObjectKey(kind string, userID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", kind, userID, uuid.NewString())
}

func allowedType(kind, contentType string) error {
	switch kind {
	case KindAvatar, KindLogo:
		if strings.HasPrefix(contentType, "image/") {
			return nil
		}
	case KindPortfolio:
		if strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/") {
			return nil
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return fmt.Errorf("%w: %q for %s", ErrInvalidMimeType, contentType, kind)
}

// PresignPut validates the request and signs a PUT for a fresh object key
func (u *Uploader) PresignPut(ctx context.Context, userID uuid.UUID, kind, contentType string) (*PresignedUpload, error) {
	if !u.Enabled() {
		return nil, ErrDisabled
	}
	if err := allowedType(kind, contentType); err != nil {
		return nil, err
	}

	key := ObjectKey(kind, userID)
	req, err := u.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign put %s: %w", key, err)
	}

	return &PresignedUpload{
		URL:       req.URL,
		Key:       key,
		Method:    req.Method,
		ExpiresAt: time.Now().UTC().Add(presignExpiry),
	}, nil
}
