package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMedicationsDropsWhollyEmptyEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/extract", r.URL.Path)
		w.Write([]byte(`{"medications":[
			{"generic_name":"Lisinopril","dosage":"10mg"},
			{},
			{"generic_name":"","brand_name":""},
			{"dosage":"500mg"}
		]}`))
	}))
	defer srv.Close()

	svc := &ExtractionService{client: &http.Client{Timeout: 2 * time.Second}, baseURL: srv.URL}
	entries, err := svc.ExtractMedications("some ocr text")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].GenericName)
	assert.Equal(t, "Lisinopril", *entries[0].GenericName)
	assert.Nil(t, entries[0].BrandName, "absent fields stay nil, not empty strings")

	assert.Nil(t, entries[1].GenericName)
	require.NotNil(t, entries[1].Dosage)
	assert.Equal(t, "500mg", *entries[1].Dosage)
}

func TestExtractMedicationsZeroEntriesIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"medications":[]}`))
	}))
	defer srv.Close()

	svc := &ExtractionService{client: &http.Client{Timeout: 2 * time.Second}, baseURL: srv.URL}
	entries, err := svc.ExtractMedications("a note with no medications")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractMedicationsUpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := &ExtractionService{client: &http.Client{Timeout: 2 * time.Second}, baseURL: srv.URL}
	_, err := svc.ExtractMedications("text")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
