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

// HTTPPlanner calls the schedule-reasoning service. It sends the aggregated
// medication view and gets back a proposed daily/weekly structure, which
// ScheduleService then validates; the proposal is never trusted as-is.
type HTTPPlanner struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewHTTPPlanner() *HTTPPlanner {
	return &HTTPPlanner{
		client:  &http.Client{Timeout: 30 * time.Second}, // schedule reasoning is the slowest call we make
		baseURL: os.Getenv("KNOWLEDGE_API_URL"),
		token:   os.Getenv("KNOWLEDGE_API_TOKEN"),
	}
}

func (p *HTTPPlanner) PlanSchedule(meds []AggregatedMedication) (*PlannedSchedule, error) {
	payload := map[string]any{"medications": meds}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal planner payload: %w", err)
	}

	req, err := http.NewRequest("POST", p.baseURL+"/v1/schedule", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create planner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("planner request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read planner response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("planner api error %d: %s", resp.StatusCode, string(body))
	}

	var plan PlannedSchedule
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("decode planner response: %w", err)
	}
	return &plan, nil
}
