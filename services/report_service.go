package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rxplain/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is the assembled view a patient sees: combined medication list,
// most recent interaction check, and the active schedule if there is one.
type Report struct {
	ReportID    string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Medications    []AggregatedMedication     `json:"medications"`
	LatestCheck    *models.InteractionCheck   `json:"latest_check,omitempty"`
	ActiveSchedule *models.MedicationSchedule `json:"active_schedule,omitempty"`
}

type ReportService struct {
	cache        *ReportCache
	schedules    *ScheduleService
	interactions *InteractionService
}

func NewReportService(cache *ReportCache, schedules *ScheduleService, interactions *InteractionService) *ReportService {
	return &ReportService{cache: cache, schedules: schedules, interactions: interactions}
}

func userReportKey(userID uint) string {
	return fmt.Sprintf("user-%d", userID)
}

// CurrentReport serves the user's report from cache when it's still live,
// otherwise rebuilds it and caches the result.
func (s *ReportService) CurrentReport(userID uint) (*Report, error) {
	if payload, err := s.cache.Get(userReportKey(userID)); err == nil {
		var report Report
		if err := json.Unmarshal(payload, &report); err == nil {
			return &report, nil
		}
		// undecodable cached payload: fall through and rebuild
		s.cache.Invalidate(userReportKey(userID))
	}

	report, err := s.build(userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(report); err == nil {
		s.cache.Put(userReportKey(userID), payload)
	}
	return report, nil
}

func (s *ReportService) build(userID uint) (*Report, error) {
	meds, err := ListAggregated(userID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now(),
		Medications: meds,
	}

	checks, err := s.interactions.ListChecks(userID)
	if err != nil {
		return nil, err
	}
	if len(checks) > 0 {
		report.LatestCheck = &checks[0]
	}

	schedule, err := s.schedules.ActiveSchedule(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		report.ActiveSchedule = schedule
	}

	return report, nil
}

// InvalidateUser drops the user's cached report, forcing the next read to
// rebuild. Called after any write that changes what the report shows.
func (s *ReportService) InvalidateUser(userID uint) {
	s.cache.Invalidate(userReportKey(userID))
}
