package services

import (
	"context"
	"strings"
	"testing"

	"github.com/justsurfingit/jobs-in-germany/internal/formflow"
	"github.com/justsurfingit/jobs-in-germany/internal/logging"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

func TestDocumentService_Upload(t *testing.T) {
	db := newTestDB(t)
	blobs := NewSimulatedBlobStore(0)
	s := NewDocumentService(db, blobs, logging.Discard())

	resume, err := s.Upload(context.Background(), 7, &formflow.File{Name: "Lebenslauf Anna.pdf", ContentType: "application/pdf", Data: pdfBytes})
	require.NoError(t, err)

	var stored models.Resume
	require.NoError(t, db.First(&stored, resume.ID).Error)
	require.Equal(t, uint(7), stored.UserID)
	require.Equal(t, "Lebenslauf Anna.pdf", stored.FileName)
	require.Equal(t, "application/pdf", stored.ContentType)
	require.Equal(t, int64(len(pdfBytes)), stored.SizeBytes)
	require.True(t, strings.HasPrefix(stored.BlobKey, "resumes/7/"), stored.BlobKey)
	require.True(t, strings.HasSuffix(stored.BlobKey, "_Lebenslauf-Anna.pdf"), stored.BlobKey)

	data, ok := blobs.Get(stored.BlobKey)
	require.True(t, ok)
	require.Equal(t, pdfBytes, data)
}

func TestDocumentService_FailedPutLeavesNoRow(t *testing.T) {
	db := newTestDB(t)
	s := NewDocumentService(db, NewSimulatedBlobStore(0), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Upload(ctx, 7, &formflow.File{Name: "cv.pdf", ContentType: "application/pdf", Data: pdfBytes})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Upload(context.Background(), 7, &formflow.File{Name: "cv.pdf"})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Resume{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestDocumentService_ListByUser(t *testing.T) {
	s := NewDocumentService(newTestDB(t), NewSimulatedBlobStore(0), logging.Discard())
	ctx := context.Background()

	for _, owner := range []uint{1, 1, 2} {
		_, err := s.Upload(ctx, owner, &formflow.File{Name: "cv.pdf", ContentType: "application/pdf", Data: pdfBytes})
		require.NoError(t, err)
	}
	mine, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, r := range mine {
		require.Equal(t, uint(1), r.UserID)
	}
	none, err := s.ListByUser(ctx, 9)
	require.NoError(t, err)
	require.Empty(t, none)
}
