package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ExtractionService sends OCR text to the medication-extraction model and
// returns best-effort structured entries. The model may omit any field and
// may return zero entries; downstream normalization copes with that.
type ExtractionService struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewExtractionService() *ExtractionService {
	return &ExtractionService{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: os.Getenv("EXTRACTION_API_URL"),
		token:   os.Getenv("EXTRACTION_API_TOKEN"),
	}
}

// ExtractMedications runs structured extraction over raw document text.
func (s *ExtractionService) ExtractMedications(rawText string) ([]RawMedicationEntry, error) {
	payload := map[string]any{"text": rawText}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal extraction payload: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL+"/v1/extract", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction api error %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Medications []RawMedicationEntry `json:"medications"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	// The collaborator promises no wholly-empty entries; drop them anyway so
	// one bad row can't pollute a user's medication list.
	entries := out.Medications[:0]
	for _, e := range out.Medications {
		if hasAnyField(e) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func hasAnyField(e RawMedicationEntry) bool {
	for _, p := range []*string{
		e.GenericName, e.BrandName, e.SuggestedName,
		e.Dosage, e.Frequency, e.Purpose,
		e.SpecialInstructions, e.ImportantSideEffects,
	} {
		if p != nil && *p != "" {
			return true
		}
	}
	return false
}
