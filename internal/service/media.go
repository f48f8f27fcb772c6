package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/fitzty/fitzty-backend/internal/config"
	domain "github.com/fitzty/fitzty-backend/internal/model"
)

// MediaStore is the storage surface the profile and wardrobe services
// depend on. *MediaService is the R2-backed implementation.
type MediaStore interface {
	UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error)
	UploadAvatarPNG(ctx context.Context, data []byte) (*domain.UploadResult, error)
	UploadWardrobeFile(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error)
	UploadWardrobeReplica(ctx context.Context, userID int64, dataURL string) (*domain.UploadResult, error)
	DeleteObject(ctx context.Context, key string) error
	KeyFromPublicURL(publicURL string) string
}

// MediaService handles media uploads to Cloudflare R2.
type MediaService struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		s3Client:  s3Client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// UploadAvatar enforces size/type, normalizes to 512x512 JPEG, and uploads to R2.
func (s *MediaService) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	data, _, err := readAndValidateImage(file, header, domain.MaxAvatarSizeBytes)
	if err != nil {
		return nil, err
	}

	jpegBytes, err := resizeToJPEG(data, domain.AvatarWidth, domain.AvatarHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", domain.AvatarFolder, uuid.NewString(), domain.AvatarExt)

	if err := s.putObject(ctx, key, jpegBytes, domain.ContentTypeJPEG, domain.AvatarCacheControl); err != nil {
		return nil, err
	}

	return &domain.UploadResult{URL: s.urlFor(key), Key: key}, nil
}

// UploadAvatarPNG uploads an AI-generated avatar. The bytes come from a
// decoded data URL, so they are stored as-is without re-encoding.
func (s *MediaService) UploadAvatarPNG(ctx context.Context, data []byte) (*domain.UploadResult, error) {
	if int64(len(data)) > domain.MaxAvatarSizeBytes {
		return nil, domain.ErrFileTooLarge
	}

	key := fmt.Sprintf("%s/%s.png", domain.AvatarFolder, uuid.NewString())

	if err := s.putObject(ctx, key, data, domain.ContentTypePNG, domain.AvatarCacheControl); err != nil {
		return nil, err
	}

	return &domain.UploadResult{URL: s.urlFor(key), Key: key}, nil
}

// UploadWardrobeFile stores a user-supplied wardrobe photo as-is under a
// per-user, per-timestamp key.
func (s *MediaService) UploadWardrobeFile(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	data, contentType, err := readAndValidateImage(file, header, domain.MaxWardrobeSizeBytes)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/wardrobe-%d-%d%s", domain.WardrobeFolder, userID, time.Now().UnixMilli(), extForContentType(contentType))

	if err := s.putObject(ctx, key, data, contentType, domain.AvatarCacheControl); err != nil {
		return nil, err
	}

	return &domain.UploadResult{URL: s.urlFor(key), Key: key}, nil
}

// UploadWardrobeReplica decodes an AI-generated base64 data URL back to
// binary and stores the PNG under a distinct per-user key.
func (s *MediaService) UploadWardrobeReplica(ctx context.Context, userID int64, dataURL string) (*domain.UploadResult, error) {
	data, contentType, err := DecodeImageDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > domain.MaxWardrobeSizeBytes {
		return nil, domain.ErrFileTooLarge
	}

	key := fmt.Sprintf("%s/wardrobe-ai-%d-%d.png", domain.WardrobeFolder, userID, time.Now().UnixMilli())

	if err := s.putObject(ctx, key, data, contentType, domain.AvatarCacheControl); err != nil {
		return nil, err
	}

	return &domain.UploadResult{URL: s.urlFor(key), Key: key}, nil
}

// KeyFromPublicURL derives the bucket key from a stored public URL using
// its last two path segments (folder/file). Items created by this service
// always nest exactly one folder deep, which keeps the heuristic safe.
func (s *MediaService) KeyFromPublicURL(publicURL string) string {
	u, err := url.Parse(publicURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return ""
	}
	return strings.Join(segments[len(segments)-2:], "/")
}

// DecodeImageDataURL parses a "data:image/...;base64," payload into raw
// bytes plus its content type.
func DecodeImageDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, "", domain.ErrInvalidDataURL
	}

	idx := strings.Index(dataURL, ",")
	if idx < 0 {
		return nil, "", domain.ErrInvalidDataURL
	}

	meta := dataURL[len("data:"):idx]
	contentType := meta
	if semi := strings.Index(meta, ";"); semi != -1 {
		contentType = meta[:semi]
	}
	if contentType == "" {
		contentType = domain.ContentTypePNG
	}
	if !domain.IsAllowedImageType(contentType) {
		return nil, "", domain.ErrInvalidImageType
	}

	data, err := base64.StdEncoding.DecodeString(dataURL[idx+1:])
	if err != nil {
		return nil, "", domain.ErrInvalidDataURL
	}

	return data, contentType, nil
}

// readAndValidateImage loads the upload into memory with size and type checks.
func readAndValidateImage(file multipart.File, header *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if header.Size > maxSize {
		return nil, "", domain.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", domain.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !domain.IsAllowedImageType(contentType) {
		return nil, "", domain.ErrInvalidImageType
	}

	return data, contentType, nil
}

// resizeToJPEG centers/crops to target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// putObject uploads bytes to R2 with metadata.
func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to r2: %w", err)
	}
	return nil
}

// DeleteObject removes an object by key. Callers should ensure the key is not the shared default.
func (s *MediaService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from r2: %w", err)
	}
	return nil
}

func (s *MediaService) urlFor(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

func extForContentType(contentType string) string {
	switch contentType {
	case domain.ContentTypePNG:
		return ".png"
	case domain.ContentTypeGIF:
		return ".gif"
	case domain.ContentTypeWebP:
		return ".webp"
	default:
		return ".jpg"
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
