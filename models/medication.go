package models

import "gorm.io/gorm"

// MedicationRecord is one medication mention extracted from a single
// document. Name fields are stored verbatim; the display name is resolved at
// render time (generic > brand > suggested > positional placeholder) and is
// never persisted, since the placeholder depends on list position.
type MedicationRecord struct {
	gorm.Model
	DocumentID uint `gorm:"index;not null"`
	Position   int  `gorm:"not null"` // 1-based ordinal within the document

	GenericName   string
	BrandName     string
	SuggestedName string

	Dosage    string
	Frequency string
	Purpose   string

	SpecialInstructions  string `gorm:"type:text"`
	ImportantSideEffects string `gorm:"type:text"`

	// Provenance: true when the field was backfilled from general
	// pharmacological knowledge rather than read off the document.
	GeneralKnowledgeInstructions bool
	GeneralKnowledgeSideEffects  bool
}
