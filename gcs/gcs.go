package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var ErrUnsupportedType = errors.New("unsupported image content type")

// Uploader stores donation program images in a single bucket.
type Uploader struct {
	client *storage.Client
	bucket string
	logger logrus.FieldLogger
}

// NewUploader connects to GCS and checks that the bucket is reachable.
// An empty credentialsFile falls back to application default credentials.
func NewUploader(ctx context.Context, bucket, credentialsFile string, logger logrus.FieldLogger) (*Uploader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to google cloud storage: %w", err)
	}

	attrsCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := client.Bucket(bucket).Attrs(attrsCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("access bucket %s: %w", bucket, err)
	}

	logger.WithField("bucket", bucket).Info("google cloud storage bucket ready")

	return &Uploader{client: client, bucket: bucket, logger: logger}, nil
}

// Upload writes the image under folder and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, contentType, folder string) (string, error) {
	ext, ok := ExtensionFor(contentType)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	objectName := ObjectName(folder, ext)
	entry := u.logger.WithFields(logrus.Fields{"bucket": u.bucket, "object": objectName})

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	writer := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		entry.WithError(err).Error("failed to copy image to gcs")
		return "", fmt.Errorf("copy image to gcs: %w", err)
	}

	if err := writer.Close(); err != nil {
		entry.WithError(err).Error("failed to finalize gcs object")
		return "", fmt.Errorf("finalize gcs object: %w", err)
	}

	publicURL := PublicURL(u.bucket, objectName)
	entry.WithField("url", publicURL).Info("image uploaded")
	return publicURL, nil
}

func (u *Uploader) Close() error {
	if u == nil || u.client == nil {
		return nil
	}
	return u.client.Close()
}

func ExtensionFor(contentType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		return "png", true
	case "image/jpeg", "image/jpg":
		return "jpeg", true
	case "image/gif":
		return "gif", true
	case "image/webp":
		return "webp", true
	}
	return "", false
}

// ObjectName is unique per upload: uuid plus nanosecond timestamp.
func ObjectName(folder, ext string) string {
	return fmt.Sprintf("%s/%s_%d.%s", strings.Trim(folder, "/"), uuid.NewString(), time.Now().UnixNano(), ext)
}

func PublicURL(bucket, objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectName)
}
