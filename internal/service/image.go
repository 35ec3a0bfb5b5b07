package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/whatwillyoucook/backend/config"
)

// MaxImageSize caps recipe image uploads at 5 MB.
const MaxImageSize = 5 << 20

// ImageService stores recipe images in S3 and hands back public URLs.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService returns nil when storage is not configured; the upload
// endpoint is then disabled.
func NewImageService(s3Config *config.S3Config) *ImageService {
	if s3Config == nil {
		return nil
	}
	return &ImageService{s3Config: s3Config}
}

// UploadRecipeImage writes the image under a fresh key and returns its URL.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, contentType string, body io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	ext := ".jpg"
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}

	key := fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.NewString(), ext)
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Config.BucketName, s.s3Config.Region, key), nil
}
