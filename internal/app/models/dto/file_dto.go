package dto

import (
	"time"

	"github.com/sanghoon/clubhub/internal/app/models"
)

// FileResponse represents uploaded file metadata
type FileResponse struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	Category     string    `json:"category"`
	ClubID       *int64    `json:"clubId,omitempty"`
	UploadedBy   int64     `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToFileResponse maps a file model to its API representation. The url is
// resolved by the caller since only the storage layer knows the base URL.
func ToFileResponse(file *models.UploadedFile, url string) FileResponse {
	return FileResponse{
		ID:           file.ID,
		URL:          url,
		OriginalName: file.OriginalName,
		Size:         file.Size,
		MimeType:     file.MimeType,
		Category:     string(file.Category),
		ClubID:       file.ClubID,
		UploadedBy:   file.UploadedBy,
		CreatedAt:    file.CreatedAt,
	}
}
