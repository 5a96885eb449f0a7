package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type MediaService interface {
	UploadImage(ctx context.Context, clientID int64, file *multipart.FileHeader) (*models.MediaAsset, error)
}

type mediaService struct {
	cfg    config.Config
	assets repository.AssetRepository
}

func NewMediaService(cfg config.Config, assets repository.AssetRepository) MediaService {
	return &mediaService{cfg: cfg, assets: assets}
}

// UploadImage stores a post image in the R2 bucket and records the
// asset. Only jpeg/png make it through: platform publish endpoints take
// image URLs only.
func (s *mediaService) UploadImage(ctx context.Context, clientID int64, file *multipart.FileHeader) (*models.MediaAsset, error) {
	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer content.Close()

	fileBytes, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("error reading file content: %w", err)
	}

	kind, err := filetype.Match(fileBytes)
	if err != nil || kind == types.Unknown {
		return nil, fmt.Errorf("unsupported file type")
	}
	switch kind.Extension {
	case "jpg", "jpeg", "png":
	default:
		return nil, fmt.Errorf("file type %s is not allowed", kind.Extension)
	}

	key, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	if err := s.uploadToR2(ctx, key, fileBytes, kind.MIME.Value); err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	asset := &models.MediaAsset{
		ClientID: clientID,
		FileName: key,
		FileType: kind.MIME.Value,
		FileSize: int64(len(fileBytes)),
		FileURL:  fmt.Sprintf("%s/%s", s.cfg.R2.PublicBaseURL, key),
	}
	asset.ID, err = s.assets.Create(ctx, asset)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *mediaService) r2Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.cfg.R2.AccessKey, s.cfg.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.cfg.R2.AccountID))
	}), nil
}

func (s *mediaService) uploadToR2(ctx context.Context, key string, file []byte, contentType string) error {
	client, err := s.r2Client(ctx)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}
	if _, err := client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
