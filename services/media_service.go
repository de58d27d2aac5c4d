package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/talkpointng/talkpoint/config"
	"github.com/talkpointng/talkpoint/db"
)

const maxProfileImageSize = 5 << 20 // 5 MB

// MediaService handles profile image uploads: a square avatar and a small
// thumbnail, both stored on S3.
type MediaService interface {
	UploadProfileImage(fileHeader *multipart.FileHeader, userID uint) (string, string, error)
}

type mediaService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

func NewMediaService(authRepo db.AuthRepository, conf *config.Config) MediaService {
	return &mediaService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func CheckFileSize(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > maxProfileImageSize {
		return fmt.Errorf("file too large: %d bytes", fileHeader.Size)
	}
	return nil
}

func CheckSupportedImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// UploadProfileImage validates the upload, derives a 400x400 avatar and a
// 161px thumbnail, pushes both to S3 and records the URLs on the user.
func (m *mediaService) UploadProfileImage(fileHeader *multipart.FileHeader, userID uint) (string, string, error) {
	if err := CheckFileSize(fileHeader); err != nil {
		return "", "", err
	}
	if !CheckSupportedImage(fileHeader.Filename) {
		return "", "", fmt.Errorf("unsupported file type: %s", fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %v", err)
	}

	avatarImg := imaging.Fill(img, 400, 400, imaging.Center, imaging.Lanczos)
	thumbnailImg := resize.Resize(161, 0, img, resize.Lanczos3)

	svc, err := m.s3Client()
	if err != nil {
		return "", "", err
	}

	key := uuid.New().String()
	avatarURL, err := m.uploadJPEG(svc, avatarImg, fmt.Sprintf("avatars/%d_%s.jpg", userID, key))
	if err != nil {
		return "", "", err
	}
	thumbnailURL, err := m.uploadJPEG(svc, thumbnailImg, fmt.Sprintf("thumbnails/%d_%s.jpg", userID, key))
	if err != nil {
		return "", "", err
	}

	if err := m.authRepo.UpsertUserImage(userID, avatarURL, thumbnailURL); err != nil {
		log.Printf("UploadProfileImage error saving urls: %v", err)
		return "", "", fmt.Errorf("failed to save image urls: %v", err)
	}

	return avatarURL, thumbnailURL, nil
}

func (m *mediaService) s3Client() (*s3.Client, error) {
	cfg, err := fig.LoadDefaultConfig(context.TODO(),
		fig.WithRegion(os.Getenv("AWS_REGION")),
		fig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"), ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func (m *mediaService) uploadJPEG(svc *s3.Client, img image.Image, fileKey string) (string, error) {
	bucketName := os.Getenv("AWS_BUCKET")
	if bucketName == "" {
		return "", fmt.Errorf("S3 bucket name is not configured")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image: %v", err)
	}

	putObjectInput := &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(fileKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ACL:         "public-read",
		ContentType: aws.String("image/jpeg"),
	}
	if _, err := svc.PutObject(context.TODO(), putObjectInput); err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	fileURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, os.Getenv("AWS_REGION"), fileKey)
	return fileURL, nil
}
