// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/config"
)

const (
	maxMirroredImages = 6
	maxImageBytes     = 10 << 20
)

// StorageService mirrors scraped product images into S3 so listings do not
// depend on Amazon-hosted URLs. Without AWS credentials it is a no-op,
// which keeps local development working.
type StorageService struct {
	s3Client   *s3.S3
	httpClient *http.Client
	config     *config.Config
	log        *logrus.Entry
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	svc := &StorageService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		config:     cfg,
		log:        logrus.WithField("component", "storage"),
	}

	if cfg.AWS.AccessKeyID == "" {
		// No credentials: mirroring disabled for local development
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

// Enabled reports whether mirroring is configured. Safe on a nil receiver so
// callers can treat a failed setup as a disabled service.
func (s *StorageService) Enabled() bool {
	return s != nil && s.s3Client != nil
}

// MirrorImages downloads up to maxMirroredImages source URLs and re-uploads
// them under the given folder, returning the mirrored URLs in order.
// Individual image failures are skipped; only a total failure is an error.
func (s *StorageService) MirrorImages(ctx context.Context, urls []string, folder string) ([]string, error) {
	if !s.Enabled() || len(urls) == 0 {
		return nil, nil
	}
	if len(urls) > maxMirroredImages {
		urls = urls[:maxMirroredImages]
	}

	var mirrored []string
	var lastErr error
	for _, src := range urls {
		url, err := s.mirrorOne(ctx, src, folder)
		if err != nil {
			s.log.WithField("url", src).WithError(err).Warn("Failed to mirror image")
			lastErr = err
			continue
		}
		mirrored = append(mirrored, url)
	}

	if len(mirrored) == 0 && lastErr != nil {
		return nil, fmt.Errorf("failed to mirror any image: %w", lastErr)
	}
	return mirrored, nil
}

func (s *StorageService) mirrorOne(ctx context.Context, src, folder string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d downloading image", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unexpected content type %q", contentType)
	}

	key := s.objectKey(src, folder)
	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *StorageService) objectKey(src, folder string) string {
	ext := path.Ext(src)
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%d_%s%s", folder, time.Now().Unix(), uuid.NewString(), ext)
}

func (s *StorageService) objectURL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.config.AWS.CloudFrontURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
