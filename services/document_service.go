package services

import (
	"fmt"
	"log"

	"rxplain/config"
	"rxplain/models"
	"rxplain/utils"

	"gorm.io/gorm"
)

// DocumentService runs the upload pipeline: store the original file, OCR it,
// send the text through medication extraction, and persist the normalized
// records under the new document.
type DocumentService struct {
	ocr       *OCRService
	extractor *ExtractionService
}

func NewDocumentService(ocr *OCRService, extractor *ExtractionService) *DocumentService {
	return &DocumentService{ocr: ocr, extractor: extractor}
}

func (s *DocumentService) ProcessUpload(userID uint, name, base64Data string) (*models.Document, error) {
	fileURL, err := utils.UploadDocumentToS3(base64Data, fmt.Sprintf("user-%d", userID))
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		UserID:  userID,
		Name:    name,
		FileURL: fileURL,
		Status:  models.DocumentProcessing,
	}
	if err := config.DB.Create(doc).Error; err != nil {
		return nil, err
	}

	text, err := s.ocr.ExtractText(base64Data)
	if err != nil {
		s.markFailed(doc)
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	entries, err := s.extractor.ExtractMedications(text)
	if err != nil {
		s.markFailed(doc)
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	// Zero entries is a valid outcome; the document just contributes nothing
	// to the aggregated view.
	for i, entry := range entries {
		rec := Normalize(entry, doc.ID, i+1)
		if err := config.DB.Create(&rec).Error; err != nil {
			s.markFailed(doc)
			return nil, err
		}
	}

	doc.RawText = text
	doc.Status = models.DocumentProcessed
	if err := config.DB.Save(doc).Error; err != nil {
		return nil, err
	}

	var populated models.Document
	if err := config.DB.Preload("Medications").First(&populated, doc.ID).Error; err != nil {
		return nil, err
	}
	return &populated, nil
}

func (s *DocumentService) markFailed(doc *models.Document) {
	doc.Status = models.DocumentFailed
	if err := config.DB.Save(doc).Error; err != nil {
		log.Printf("failed to mark document %d failed: %v", doc.ID, err)
	}
}

func (s *DocumentService) List(userID uint) ([]models.Document, error) {
	var docs []models.Document
	err := config.DB.
		Preload("Medications").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&docs).Error
	return docs, err
}

func (s *DocumentService) Delete(userID, documentID uint) error {
	var doc models.Document
	if err := config.DB.
		Where("id = ? AND user_id = ?", documentID, userID).
		First(&doc).Error; err != nil {
		return err
	}
	return config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", doc.ID).
			Delete(&models.MedicationRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Document{}, doc.ID).Error
	})
}
