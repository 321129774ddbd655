package models

import "gorm.io/gorm"

// Document statuses
const (
	DocumentProcessing = "processing"
	DocumentProcessed  = "processed"
	DocumentFailed     = "failed"
)

// An uploaded prescription document plus its extraction results.
type Document struct {
	gorm.Model
	UserID  uint   `gorm:"index;not null"`
	Name    string `gorm:"not null"` // user-facing file name
	FileURL string // S3/CloudFront location of the original upload
	RawText string `gorm:"type:text"` // OCR output kept for re-extraction
	Status  string `gorm:"size:20;default:processing"`

	Medications []MedicationRecord
}
