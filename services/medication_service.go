package services

import (
	"fmt"
	"strings"

	"rxplain/config"
	"rxplain/models"

	"gorm.io/gorm"
)

// RawMedicationEntry is the pre-normalization shape returned by the
// extraction collaborator. Every field is a pointer so an absent field is
// distinguishable from an empty string.
type RawMedicationEntry struct {
	GenericName   *string `json:"generic_name"`
	BrandName     *string `json:"brand_name"`
	SuggestedName *string `json:"suggested_name"`

	Dosage    *string `json:"dosage"`
	Frequency *string `json:"frequency"`
	Purpose   *string `json:"purpose"`

	SpecialInstructions  *string `json:"special_instructions"`
	ImportantSideEffects *string `json:"important_side_effects"`

	GeneralKnowledgeInstructions bool `json:"general_knowledge_instructions"`
	GeneralKnowledgeSideEffects  bool `json:"general_knowledge_side_effects"`
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// Normalize turns one raw extracted entry into a stored MedicationRecord.
// Total over partial input: an entry with nothing usable still yields a
// record, it just has no extracted name. position is 1-based within the
// document and drives the placeholder display name later.
func Normalize(raw RawMedicationEntry, documentID uint, position int) models.MedicationRecord {
	return models.MedicationRecord{
		DocumentID: documentID,
		Position:   position,

		GenericName:   strOrEmpty(raw.GenericName),
		BrandName:     strOrEmpty(raw.BrandName),
		SuggestedName: strOrEmpty(raw.SuggestedName),

		Dosage:    strOrEmpty(raw.Dosage),
		Frequency: strOrEmpty(raw.Frequency),
		Purpose:   strOrEmpty(raw.Purpose),

		SpecialInstructions:  strOrEmpty(raw.SpecialInstructions),
		ImportantSideEffects: strOrEmpty(raw.ImportantSideEffects),

		GeneralKnowledgeInstructions: raw.GeneralKnowledgeInstructions,
		GeneralKnowledgeSideEffects:  raw.GeneralKnowledgeSideEffects,
	}
}

// DisplayName resolves the user-facing name for a record: generic, then
// brand, then suggested, then "Medication Entry #N". The second return is
// true only when the name was explicitly extracted (generic or brand), not
// merely suggested or a placeholder.
func DisplayName(rec models.MedicationRecord, ordinal int) (string, bool) {
	if rec.GenericName != "" {
		return rec.GenericName, true
	}
	if rec.BrandName != "" {
		return rec.BrandName, true
	}
	if rec.SuggestedName != "" {
		return rec.SuggestedName, false
	}
	return fmt.Sprintf("Medication Entry #%d", ordinal), false
}

// AggregatedMedication is one row of the combined cross-document view.
type AggregatedMedication struct {
	DisplayName     string `json:"display_name"`
	IsNameExtracted bool   `json:"is_name_extracted"`

	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Purpose   string `json:"purpose,omitempty"`

	SpecialInstructions  string `json:"special_instructions,omitempty"`
	ImportantSideEffects string `json:"important_side_effects,omitempty"`

	GeneralKnowledgeInstructions bool `json:"general_knowledge_instructions"`
	GeneralKnowledgeSideEffects  bool `json:"general_knowledge_side_effects"`

	// Every document that mentioned this medication, in first-seen order.
	SourceDocuments []string `json:"source_documents"`
}

// DocumentRecords pairs a document's name with its stored records, in
// upload/processing order.
type DocumentRecords struct {
	DocumentName string
	Records      []models.MedicationRecord
}

// Aggregate merges per-document record lists into one de-duplicated view.
// Merge key is the lowercased, trimmed display name. On collision the
// first-seen record keeps its clinical fields and the newcomer only
// contributes its document name to the lineage (first-seen-wins,
// union-of-sources). Output order is first-seen order, stable across
// re-aggregation for an unchanged document order.
func Aggregate(docs []DocumentRecords) []AggregatedMedication {
	var out []AggregatedMedication
	index := make(map[string]int) // merge key -> position in out

	for _, doc := range docs {
		for i, rec := range doc.Records {
			name, extracted := DisplayName(rec, i+1)
			key := strings.ToLower(strings.TrimSpace(name))

			if at, seen := index[key]; seen {
				agg := &out[at]
				if !containsString(agg.SourceDocuments, doc.DocumentName) {
					agg.SourceDocuments = append(agg.SourceDocuments, doc.DocumentName)
				}
				continue
			}

			index[key] = len(out)
			out = append(out, AggregatedMedication{
				DisplayName:                  name,
				IsNameExtracted:              extracted,
				Dosage:                       rec.Dosage,
				Frequency:                    rec.Frequency,
				Purpose:                      rec.Purpose,
				SpecialInstructions:          rec.SpecialInstructions,
				ImportantSideEffects:         rec.ImportantSideEffects,
				GeneralKnowledgeInstructions: rec.GeneralKnowledgeInstructions,
				GeneralKnowledgeSideEffects:  rec.GeneralKnowledgeSideEffects,
				SourceDocuments:              []string{doc.DocumentName},
			})
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ListAggregated rebuilds the combined view for a user from their processed
// documents. The view is derived, never stored.
func ListAggregated(userID uint) ([]AggregatedMedication, error) {
	var documents []models.Document
	err := config.DB.
		Preload("Medications", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ? AND status = ?", userID, models.DocumentProcessed).
		Order("created_at ASC").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}

	docs := make([]DocumentRecords, 0, len(documents))
	for _, d := range documents {
		docs = append(docs, DocumentRecords{DocumentName: d.Name, Records: d.Medications})
	}
	return Aggregate(docs), nil
}
