package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"moodring/internal/config"
	"moodring/internal/model"
)

// presignExpiry is how long a presigned avatar upload URL stays valid.
const presignExpiry = 15 * time.Minute

// MediaService handles avatar storage on S3. Registration uploads go
// through the server (normalized to 200x200 JPEG); later avatar changes
// use presigned URLs so the bytes never transit this service.
type MediaService struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	publicBaseURL string
}

// NewMediaService constructs the S3 client pair from static credentials.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.AWSRegion == "" || cfg.AWSAccessKeyID == "" || cfg.AWSSecretAccessKey == "" || cfg.S3BucketName == "" {
		return nil, fmt.Errorf("missing S3 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg)

	return &MediaService{
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.S3BucketName,
		region:        cfg.AWSRegion,
		publicBaseURL: strings.TrimSuffix(cfg.S3PublicBaseURL, "/"),
	}, nil
}

// UploadAvatar enforces size/type, normalizes to 200x200 JPEG, and uploads to S3.
func (s *MediaService) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	data, _, err := readAndValidateImage(file, header, model.MaxAvatarSizeBytes)
	if err != nil {
		return nil, err
	}

	jpegBytes, err := resizeToJPEG(data, model.AvatarWidth, model.AvatarHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", model.AvatarFolder, uuid.NewString(), model.AvatarExt)

	if err := s.putObject(ctx, key, jpegBytes, model.ContentTypeJPEG, model.AvatarCacheControl); err != nil {
		return nil, err
	}

	return &model.UploadResult{URL: s.PublicURL(key), Key: key}, nil
}

// PresignAvatarUpload issues a presigned PUT for a direct avatar upload.
// The public URL is derived from bucket/region/key, not returned by S3.
func (s *MediaService) PresignAvatarUpload(ctx context.Context, req *model.PresignAvatarRequest) (*model.PresignAvatarResponse, error) {
	if !model.IsAllowedImageType(req.ContentType) {
		return nil, model.ErrInvalidImageType
	}
	if req.FileSize > model.MaxAvatarSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	key := fmt.Sprintf("%s/%s%s", model.AvatarFolder, uuid.NewString(), extForContentType(req.ContentType))

	presigned, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign put object: %w", err)
	}

	return &model.PresignAvatarResponse{
		UploadURL:  presigned.URL,
		PublicURL:  s.PublicURL(key),
		Key:        key,
		ExpiresInS: int(presignExpiry.Seconds()),
	}, nil
}

// PublicURL derives the public object URL deterministically. A CDN base
// wins when configured; otherwise the standard S3 virtual-hosted URL.
func (s *MediaService) PublicURL(key string) string {
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// readAndValidateImage loads the upload into memory with size and type checks.
func readAndValidateImage(file multipart.File, header *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if header.Size > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !model.IsAllowedImageType(contentType) {
		return nil, "", model.ErrInvalidImageType
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

// putObject uploads bytes to S3 with metadata.
func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to s3: %w", err)
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
		return fmt.Errorf("failed to delete from s3: %w", err)
	}
	return nil
}

func extForContentType(contentType string) string {
	switch contentType {
	case model.ContentTypePNG:
		return ".png"
	case model.ContentTypeGIF:
		return ".gif"
	case model.ContentTypeWebP:
		return ".webp"
	default:
		return model.AvatarExt
	}
}

