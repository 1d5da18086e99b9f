package services

import (
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
)

const testMaxUpload = int64(10 * 1024 * 1024)

func newTestFileService() (*FileService, *mockFileRepo, *mockClubRepo, *mockStorage) {
	userRepo := newMockUserRepo()
	clubRepo := newMockClubRepo(userRepo)
	fileRepo := newMockFileRepo()
	storage := newMockStorage()
	svc := NewFileService(fileRepo, clubRepo, storage, testMaxUpload)
	return svc, fileRepo, clubRepo, storage
}

func fileHeader(name string, size int64, mimeType string) *multipart.FileHeader {
	header := make(textproto.MIMEHeader)
	if mimeType != "" {
		header.Set("Content-Type", mimeType)
	}
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   header,
	}
}

func TestUploadStoresFiles(t *testing.T) {
	svc, fileRepo, _, storage := newTestFileService()

	files := []*multipart.FileHeader{
		fileHeader("receipt.pdf", 1024, "application/pdf"),
		fileHeader("photo.jpg", 2048, "image/jpeg"),
	}

	responses, err := svc.Upload(context.Background(), 1, files, "RECEIPT", nil)
	require.NoError(t, err)
	require.Len(t, responses, 2)

	assert.Equal(t, "receipt.pdf", responses[0].OriginalName)
	assert.Equal(t, "RECEIPT", responses[0].Category)
	assert.Contains(t, responses[0].URL, "http://localhost:8080/media/")
	assert.Len(t, storage.saved, 2)
	assert.Len(t, fileRepo.files, 2)
}

func TestUploadDefaultsCategoryAndMimeType(t *testing.T) {
	svc, fileRepo, _, _ := newTestFileService()

	responses, err := svc.Upload(context.Background(), 1,
		[]*multipart.FileHeader{fileHeader("notes.txt", 10, "")}, "", nil)
	require.NoError(t, err)
	require.Len(t, responses, 1)

	assert.Equal(t, "GENERAL", responses[0].Category)
	assert.Equal(t, "application/octet-stream", fileRepo.files[responses[0].ID].MimeType)
}

func TestUploadRejectsInvalidCategory(t *testing.T) {
	svc, _, _, storage := newTestFileService()

	_, err := svc.Upload(context.Background(), 1,
		[]*multipart.FileHeader{fileHeader("a.txt", 10, "")}, "SELFIE", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileCategory)
	assert.Empty(t, storage.saved)
}

func TestUploadRejectsUnknownClub(t *testing.T) {
	svc, _, _, storage := newTestFileService()

	clubID := int64(404)
	_, err := svc.Upload(context.Background(), 1,
		[]*multipart.FileHeader{fileHeader("a.txt", 10, "")}, "", &clubID)
	assert.ErrorIs(t, err, apperrors.ErrClubNotFound)
	assert.Empty(t, storage.saved)
}

func TestUploadOversizedFileFailsWholeBatch(t *testing.T) {
	svc, fileRepo, _, storage := newTestFileService()

	files := []*multipart.FileHeader{
		fileHeader("small.pdf", 1024, "application/pdf"),
		fileHeader("huge.zip", testMaxUpload+1, "application/zip"),
	}

	_, err := svc.Upload(context.Background(), 1, files, "REPORT", nil)
	require.ErrorIs(t, err, apperrors.ErrFileTooLarge)
	assert.Contains(t, err.Error(), "huge.zip")
	assert.Contains(t, err.Error(), "10 MB")

	// Nothing from the batch is persisted.
	assert.Empty(t, storage.saved)
	assert.Empty(t, fileRepo.files)
}

func TestUploadDiscardsStoredFilesOnDBFailure(t *testing.T) {
	svc, fileRepo, _, storage := newTestFileService()
	fileRepo.createErr = assert.AnError

	_, err := svc.Upload(context.Background(), 1,
		[]*multipart.FileHeader{fileHeader("a.txt", 10, "")}, "", nil)
	require.Error(t, err)

	// The stored blob is cleaned up when the records cannot be written.
	assert.Len(t, storage.deleted, 1)
	assert.Empty(t, fileRepo.files)
}

func TestUploadPathUsesClubName(t *testing.T) {
	svc, _, clubRepo, storage := newTestFileService()
	club := clubRepo.addClub(&models.Club{Name: "Rocket Club"})

	_, err := svc.Upload(context.Background(), 1,
		[]*multipart.FileHeader{fileHeader("r.pdf", 10, "application/pdf")}, "RECEIPT", &club.ID)
	require.NoError(t, err)

	require.Len(t, storage.saved, 1)
	assert.Contains(t, storage.saved[0], "Rocket_Club/RECEIPT")
}

func TestFileListFilters(t *testing.T) {
	svc, fileRepo, clubRepo, _ := newTestFileService()
	club := clubRepo.addClub(&models.Club{Name: "Rocket Club"})

	require.NoError(t, fileRepo.CreateBatch(context.Background(), []*models.UploadedFile{
		{FilePath: "a", OriginalName: "a.pdf", Category: models.CategoryReceipt, UploadedBy: 1, ClubID: &club.ID},
		{FilePath: "b", OriginalName: "b.pdf", Category: models.CategoryReport, UploadedBy: 1},
	}))

	page, err := svc.List(context.Background(), FileListParams{ClubID: &club.ID, Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)

	page, err = svc.List(context.Background(), FileListParams{Category: "REPORT", Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)

	_, err = svc.List(context.Background(), FileListParams{Category: "BOGUS", Page: 1, Size: 20})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileCategory)
}

func TestFileGetAndSoftDelete(t *testing.T) {
	svc, fileRepo, _, _ := newTestFileService()

	require.NoError(t, fileRepo.CreateBatch(context.Background(), []*models.UploadedFile{
		{FilePath: "2026/no_club/GENERAL/x.pdf", OriginalName: "x.pdf", Category: models.CategoryGeneral, UploadedBy: 1},
	}))

	got, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "x.pdf", got.OriginalName)
	assert.Equal(t, "http://localhost:8080/media/2026/no_club/GENERAL/x.pdf", got.URL)

	require.NoError(t, svc.Delete(context.Background(), 1))

	_, err = svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)

	err = svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}
