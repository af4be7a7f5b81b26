package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/justsurfingit/jobs-in-germany/internal/formflow"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"gorm.io/gorm"
)

// BlobStore keeps the raw bytes of uploaded files.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// DocumentService is the DocumentStore: bytes go to a BlobStore, metadata to
// the resumes table.
type DocumentService struct {
	DB     *gorm.DB
	Blobs  BlobStore
	Logger *slog.Logger
}

func NewDocumentService(db *gorm.DB, blobs BlobStore, logger *slog.Logger) *DocumentService {
	return &DocumentService{DB: db, Blobs: blobs, Logger: logger}
}

func (s *DocumentService) Upload(ctx context.Context, userID uint, file *formflow.File) (*models.Resume, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, errors.New("file data is empty")
	}
	contentType := formflow.MediaType(file)
	key := BlobKey(userID, file.Name)

	if err := s.Blobs.Put(ctx, key, file.Data, contentType); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	resume := &models.Resume{
		UserID:      userID,
		FileName:    file.Name,
		ContentType: contentType,
		SizeBytes:   file.Size(),
		BlobKey:     key,
	}
	if err := s.DB.WithContext(ctx).Create(resume).Error; err != nil {
		return nil, fmt.Errorf("save resume: %w", err)
	}
	s.Logger.Info("resume stored", "user_id", userID, "key", key, "size", humanize.Bytes(uint64(file.Size())))
	return resume, nil
}

// ListByUser returns the user's uploads, newest first.
func (s *DocumentService) ListByUser(ctx context.Context, userID uint) ([]models.Resume, error) {
	var resumes []models.Resume
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&resumes).Error
	return resumes, err
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// BlobKey builds a unique, path-safe object key for a user's file.
func BlobKey(userID uint, fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, `\`, "/"))
	base = strings.Trim(unsafeName.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "resume"
	}
	return fmt.Sprintf("resumes/%d/%s_%s", userID, uuid.NewString(), base)
}
