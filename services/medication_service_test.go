package services

import (
	"testing"

	"rxplain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeEmptyEntry(t *testing.T) {
	rec := Normalize(RawMedicationEntry{}, 7, 1)

	assert.Equal(t, uint(7), rec.DocumentID)
	assert.Equal(t, 1, rec.Position)
	assert.Empty(t, rec.GenericName)
	assert.Empty(t, rec.BrandName)
	assert.Empty(t, rec.SuggestedName)
	assert.Empty(t, rec.Dosage)

	name, extracted := DisplayName(rec, 1)
	assert.Equal(t, "Medication Entry #1", name)
	assert.False(t, extracted)
}

func TestNormalizeDistinguishesAbsentFromEmpty(t *testing.T) {
	// An explicitly-empty field and an absent field both normalize to "",
	// but neither may panic or be mistaken for a name.
	rec := Normalize(RawMedicationEntry{
		GenericName: strPtr(""),
		Dosage:      strPtr("  10mg  "),
	}, 1, 3)

	assert.Empty(t, rec.GenericName)
	assert.Equal(t, "10mg", rec.Dosage)

	name, extracted := DisplayName(rec, 3)
	assert.Equal(t, "Medication Entry #3", name)
	assert.False(t, extracted)
}

func TestDisplayNamePrecedence(t *testing.T) {
	rec := models.MedicationRecord{
		GenericName:   "Lisinopril",
		BrandName:     "Zestril",
		SuggestedName: "Lisinopril 10mg tab",
	}

	name, extracted := DisplayName(rec, 1)
	assert.Equal(t, "Lisinopril", name)
	assert.True(t, extracted)

	rec.GenericName = ""
	name, extracted = DisplayName(rec, 1)
	assert.Equal(t, "Zestril", name)
	assert.True(t, extracted)

	rec.BrandName = ""
	name, extracted = DisplayName(rec, 1)
	assert.Equal(t, "Lisinopril 10mg tab", name)
	assert.False(t, extracted, "suggested names are not extracted names")
}

func TestAggregateDeduplicatesAcrossDocuments(t *testing.T) {
	docs := []DocumentRecords{
		{
			DocumentName: "Dr. Smith Rx.pdf",
			Records: []models.MedicationRecord{
				{GenericName: "Lisinopril", Dosage: "10mg", Frequency: "once daily"},
			},
		},
		{
			DocumentName: "Hospital discharge.pdf",
			Records: []models.MedicationRecord{
				{GenericName: "  lisinopril ", Dosage: "20mg"},
			},
		},
	}

	out := Aggregate(docs)
	require.Len(t, out, 1)

	agg := out[0]
	assert.Equal(t, "Lisinopril", agg.DisplayName)
	assert.Equal(t, "10mg", agg.Dosage, "first-seen clinical fields win")
	assert.Equal(t, "once daily", agg.Frequency)
	assert.Equal(t, []string{"Dr. Smith Rx.pdf", "Hospital discharge.pdf"}, agg.SourceDocuments)
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	docs := []DocumentRecords{
		{
			DocumentName: "a.pdf",
			Records: []models.MedicationRecord{
				{GenericName: "Warfarin"},
				{GenericName: "Aspirin"},
			},
		},
		{
			DocumentName: "b.pdf",
			Records: []models.MedicationRecord{
				{GenericName: "Metformin"},
				{GenericName: "Aspirin"}, // collision, should not move
			},
		},
	}

	out := Aggregate(docs)
	require.Len(t, out, 3)
	assert.Equal(t, "Warfarin", out[0].DisplayName)
	assert.Equal(t, "Aspirin", out[1].DisplayName)
	assert.Equal(t, "Metformin", out[2].DisplayName)

	// Re-aggregating the same input yields the same order.
	again := Aggregate(docs)
	require.Len(t, again, 3)
	for i := range out {
		assert.Equal(t, out[i].DisplayName, again[i].DisplayName)
	}
}

func TestAggregateLineageHasNoDuplicateDocuments(t *testing.T) {
	docs := []DocumentRecords{
		{
			DocumentName: "refill.pdf",
			Records: []models.MedicationRecord{
				{GenericName: "Aspirin", Position: 1},
				{GenericName: "aspirin", Position: 2}, // same doc, twice
			},
		},
	}

	out := Aggregate(docs)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"refill.pdf"}, out[0].SourceDocuments)
}

func TestAggregatePlaceholderNamesDedupePerPosition(t *testing.T) {
	// Nameless records fall back to positional placeholders, which only
	// collide when two documents have a nameless record at the same ordinal.
	docs := []DocumentRecords{
		{DocumentName: "a.pdf", Records: []models.MedicationRecord{{Dosage: "5mg"}}},
		{DocumentName: "b.pdf", Records: []models.MedicationRecord{{Dosage: "10mg"}}},
	}

	out := Aggregate(docs)
	require.Len(t, out, 1)
	assert.Equal(t, "Medication Entry #1", out[0].DisplayName)
	assert.False(t, out[0].IsNameExtracted)
	assert.Equal(t, "5mg", out[0].Dosage)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, out[0].SourceDocuments)
}

func TestAggregateCarriesProvenanceFlags(t *testing.T) {
	docs := []DocumentRecords{
		{
			DocumentName: "rx.pdf",
			Records: []models.MedicationRecord{
				{
					GenericName:                  "Metformin",
					SpecialInstructions:          "Take with meals",
					GeneralKnowledgeInstructions: true,
					GeneralKnowledgeSideEffects:  false,
				},
			},
		},
	}

	out := Aggregate(docs)
	require.Len(t, out, 1)
	assert.True(t, out[0].GeneralKnowledgeInstructions)
	assert.False(t, out[0].GeneralKnowledgeSideEffects)
}
