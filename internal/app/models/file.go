package models

import "time"

// UploadedFile defines an uploaded file record based on the 'uploaded_files' table
type UploadedFile struct {
	ID           int64        `json:"id" db:"id"`
	FilePath     string       `json:"filePath" db:"file_path"`
	OriginalName string       `json:"originalName" db:"original_name"`
	Size         int64        `json:"size" db:"size"`
	MimeType     string       `json:"mimeType" db:"mime_type"`
	Category     FileCategory `json:"category" db:"category"`
	UploadedBy   int64        `json:"uploadedBy" db:"uploaded_by"`
	ClubID       *int64       `json:"clubId,omitempty" db:"club_id"`
	OCRResult    []byte       `json:"-" db:"ocr_result"` // reserved for OCR pipeline output
	IsActive     bool         `json:"isActive" db:"is_active"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}
