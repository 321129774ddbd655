package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"rxplain/config"
	"rxplain/models"
	"rxplain/utils"
)

// InteractionService shapes requests to the drug-interaction knowledge
// service and normalizes its answers. Names are passed through as opaque
// free-text tokens; the collaborator does the pharmacological reasoning.
type InteractionService struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewInteractionService() *InteractionService {
	return &InteractionService{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: os.Getenv("KNOWLEDGE_API_URL"),
		token:   os.Getenv("KNOWLEDGE_API_TOKEN"),
	}
}

// InteractionAnalysis is the normalized result of one check.
type InteractionAnalysis struct {
	RiskLevel   string `json:"risk_level"`
	Description string `json:"description"`
}

// distinctNames trims, de-duplicates case-insensitively, and drops empties.
func distinctNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

// AnalyzeInteractions checks a selected medication set against the knowledge
// service. Fewer than 2 distinct names is a caller error
// (ErrSelectionPrecondition). A collaborator failure or an undecodable
// response surfaces as ErrAnalysisUnavailable; it is never turned into a
// reassuring "none".
func (s *InteractionService) AnalyzeInteractions(names []string) (*InteractionAnalysis, error) {
	meds := distinctNames(names)
	if len(meds) < 2 {
		return nil, ErrSelectionPrecondition
	}

	payload := map[string]any{"medications": meds}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", s.baseURL+"/v1/interactions", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrAnalysisUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: knowledge api error %d: %s", ErrAnalysisUnavailable, resp.StatusCode, string(body))
	}

	var out struct {
		RiskLevel   *string `json:"risk_level"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrAnalysisUnavailable, err)
	}

	// Absent or out-of-vocabulary risk levels become unknown, never none.
	level := models.RiskUnknown
	if out.RiskLevel != nil && models.ValidRiskLevel(strings.ToLower(strings.TrimSpace(*out.RiskLevel))) {
		level = strings.ToLower(strings.TrimSpace(*out.RiskLevel))
	}
	desc := ""
	if out.Description != nil {
		desc = strings.TrimSpace(*out.Description)
	}

	return &InteractionAnalysis{RiskLevel: level, Description: desc}, nil
}

// CheckForUser runs an analysis, stores it in the user's history, and raises
// an alert when the result is high or worse.
func (s *InteractionService) CheckForUser(userID uint, names []string) (*InteractionAnalysis, error) {
	analysis, err := s.AnalyzeInteractions(names)
	if err != nil {
		return nil, err
	}

	check := &models.InteractionCheck{
		UserID:      userID,
		Medications: strings.Join(distinctNames(names), "; "),
		RiskLevel:   analysis.RiskLevel,
		Description: analysis.Description,
		CreatedAt:   time.Now(),
	}
	if err := config.DB.Create(check).Error; err != nil {
		return nil, err
	}

	if models.RiskRank(analysis.RiskLevel) >= models.RiskRank(models.RiskHigh) {
		EmitRiskAlert(userID, analysis.RiskLevel, fmt.Sprintf(
			"Possible %s-risk interaction between: %s", analysis.RiskLevel, check.Medications))

		var user models.User
		if err := config.DB.First(&user, userID).Error; err == nil {
			_ = utils.SendRiskEmail(user.Email, analysis.RiskLevel, check.Medications)
		}
	}

	return analysis, nil
}

// ListChecks returns a user's interaction history, newest first.
func (s *InteractionService) ListChecks(userID uint) ([]models.InteractionCheck, error) {
	var checks []models.InteractionCheck
	err := config.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&checks).Error
	return checks, err
}
