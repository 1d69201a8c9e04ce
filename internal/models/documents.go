package models

import (
	"time"
)

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusAnalyzed   DocumentStatus = "analyzed"
	StatusError      DocumentStatus = "error"
)

type Document struct {
	ID            string         `json:"id" db:"id"`
	UserID        string         `json:"user_id" db:"user_id"`
	FileName      string         `json:"file_name" db:"file_name"`
	FilePath      string         `json:"file_path" db:"file_path"`
	FileSize      int64          `json:"file_size" db:"file_size"`
	MimeType      string         `json:"mime_type" db:"mime_type"`
	Status        DocumentStatus `json:"status" db:"status"`
	ExtractedText *string        `json:"extracted_text,omitempty" db:"extracted_text"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

type UploadRequest struct {
	File     []byte
	FileName string
	MimeType string
}

type UploadResponse struct {
	Document *Document `json:"document"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Message  string    `json:"message"`
}

type ExtractionResponse struct {
	ExtractedText string `json:"extractedText"`
	TextLength    int    `json:"textLength"`
}
