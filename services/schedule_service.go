package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"rxplain/config"
	"rxplain/models"

	"gorm.io/gorm"
)

// SchedulePlanner proposes a daily/weekly dosing structure for a medication
// set. The HTTP implementation lives in planner_service.go; tests supply a
// deterministic stub.
type SchedulePlanner interface {
	PlanSchedule(meds []AggregatedMedication) (*PlannedSchedule, error)
}

// PlannedSchedule is the planner's pre-validation proposal.
type PlannedSchedule struct {
	Slots               []PlannedSlot       `json:"daily_schedule"`
	Adjustments         []PlannedAdjustment `json:"weekly_adjustments"`
	SpecialNotes        string              `json:"special_notes"`
	RecommendedFollowup string              `json:"recommended_followup"`
}

type PlannedSlot struct {
	TimeOfDay     string              `json:"time_of_day"`
	SuggestedTime string              `json:"suggested_time"`
	WithFood      bool                `json:"with_food"`
	Medications   []PlannedMedication `json:"medications"`
}

type PlannedMedication struct {
	Name                string `json:"name"`
	Dosage              string `json:"dosage"`
	SpecialInstructions string `json:"special_instructions"`
}

type PlannedAdjustment struct {
	MedicationNames []string `json:"medication_names"`
	Days            []string `json:"days"`
	Description     string   `json:"description"`
}

type ScheduleService struct {
	planner SchedulePlanner
}

func NewScheduleService(p SchedulePlanner) *ScheduleService {
	return &ScheduleService{planner: p}
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Synthesize asks the planner for a proposal and enforces the output shape
// contract: no orphan medication references, no empty time-of-day slots,
// adjustments only over medications that appear in the daily schedule, slots
// in chronological order whatever order the planner returned them. The
// returned schedule is not yet persisted.
func (s *ScheduleService) Synthesize(meds []AggregatedMedication) (*models.MedicationSchedule, error) {
	plan, err := s.planner.PlanSchedule(meds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}

	known := make(map[string]struct{}, len(meds))
	for _, m := range meds {
		known[nameKey(m.DisplayName)] = struct{}{}
	}

	scheduled := make(map[string]struct{})
	slots := make([]models.ScheduleSlot, 0, len(plan.Slots))
	for _, ps := range plan.Slots {
		if strings.TrimSpace(ps.TimeOfDay) == "" {
			return nil, fmt.Errorf("%w: slot with empty time of day", ErrScheduleIntegrity)
		}
		slot := models.ScheduleSlot{
			TimeOfDay:     strings.TrimSpace(ps.TimeOfDay),
			SuggestedTime: ps.SuggestedTime,
			WithFood:      ps.WithFood,
		}
		for _, pm := range ps.Medications {
			key := nameKey(pm.Name)
			if _, ok := known[key]; !ok {
				return nil, fmt.Errorf("%w: unknown medication %q in daily schedule", ErrScheduleIntegrity, pm.Name)
			}
			scheduled[key] = struct{}{}
			slot.Medications = append(slot.Medications, models.ScheduledMedication{
				Name:                pm.Name,
				Dosage:              pm.Dosage,
				SpecialInstructions: pm.SpecialInstructions,
			})
		}
		slots = append(slots, slot)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return models.TimeOfDayRank(slots[i].TimeOfDay) < models.TimeOfDayRank(slots[j].TimeOfDay)
	})

	adjustments := make([]models.WeeklyAdjustment, 0, len(plan.Adjustments))
	for _, pa := range plan.Adjustments {
		for _, n := range pa.MedicationNames {
			if _, ok := scheduled[nameKey(n)]; !ok {
				return nil, fmt.Errorf("%w: weekly adjustment references %q which is not in the daily schedule", ErrScheduleIntegrity, n)
			}
		}
		adjustments = append(adjustments, models.WeeklyAdjustment{
			MedicationNames: strings.Join(pa.MedicationNames, "; "),
			Days:            strings.Join(pa.Days, "; "),
			Description:     pa.Description,
		})
	}

	return &models.MedicationSchedule{
		Slots:               slots,
		Adjustments:         adjustments,
		SpecialNotes:        plan.SpecialNotes,
		RecommendedFollowup: plan.RecommendedFollowup,
	}, nil
}

// CreateForUser synthesizes a schedule from the user's current aggregated
// medication view and stores it. New schedules start inactive; activation is
// an explicit step.
func (s *ScheduleService) CreateForUser(userID uint) (*models.MedicationSchedule, error) {
	meds, err := ListAggregated(userID)
	if err != nil {
		return nil, err
	}
	schedule, err := s.Synthesize(meds)
	if err != nil {
		return nil, err
	}
	schedule.UserID = userID
	if err := config.DB.Create(schedule).Error; err != nil {
		return nil, err
	}
	return s.Get(userID, schedule.ID)
}

func (s *ScheduleService) Get(userID, scheduleID uint) (*models.MedicationSchedule, error) {
	var schedule models.MedicationSchedule
	err := config.DB.
		Preload("Slots.Medications").
		Preload("Slots").
		Preload("Adjustments").
		Where("id = ? AND user_id = ?", scheduleID, userID).
		First(&schedule).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &schedule, nil
}

func (s *ScheduleService) List(userID uint) ([]models.MedicationSchedule, error) {
	var schedules []models.MedicationSchedule
	err := config.DB.
		Preload("Slots.Medications").
		Preload("Slots").
		Preload("Adjustments").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&schedules).Error
	return schedules, err
}

// ScheduleUpdate is a partial update; nil fields are left untouched.
// UserID is never updatable.
type ScheduleUpdate struct {
	SpecialNotes        *string `json:"special_notes"`
	RecommendedFollowup *string `json:"recommended_followup"`
	IsActive            *bool   `json:"is_active"`
}

// Update merges the patch into the stored schedule and re-stamps UpdatedAt.
func (s *ScheduleService) Update(userID, scheduleID uint, patch ScheduleUpdate) (*models.MedicationSchedule, error) {
	schedule, err := s.Get(userID, scheduleID)
	if err != nil {
		return nil, err
	}

	if patch.SpecialNotes != nil {
		schedule.SpecialNotes = *patch.SpecialNotes
	}
	if patch.RecommendedFollowup != nil {
		schedule.RecommendedFollowup = *patch.RecommendedFollowup
	}
	if patch.IsActive != nil {
		if *patch.IsActive {
			return nil, ErrActivationViaUpdate
		}
		schedule.IsActive = false
	}
	schedule.UpdatedAt = time.Now()

	if err := config.DB.Save(schedule).Error; err != nil {
		return nil, err
	}
	return schedule, nil
}

// SetActive marks one schedule active and every other schedule of the same
// user inactive, in one transaction. At most one active schedule per user.
func (s *ScheduleService) SetActive(userID, scheduleID uint) (*models.MedicationSchedule, error) {
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var schedule models.MedicationSchedule
		if err := tx.Where("id = ? AND user_id = ?", scheduleID, userID).First(&schedule).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.MedicationSchedule{}).
			Where("user_id = ? AND id <> ?", userID, scheduleID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&schedule).
			Updates(map[string]any{"is_active": true, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(userID, scheduleID)
}

// ActiveSchedule returns the user's active schedule, or ErrRecordNotFound.
func (s *ScheduleService) ActiveSchedule(userID uint) (*models.MedicationSchedule, error) {
	var schedule models.MedicationSchedule
	err := config.DB.
		Preload("Slots.Medications").
		Preload("Slots").
		Preload("Adjustments").
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Delete removes a schedule and its slots/adjustments.
func (s *ScheduleService) Delete(userID, scheduleID uint) error {
	schedule, err := s.Get(userID, scheduleID)
	if err != nil {
		return err
	}
	return config.DB.Transaction(func(tx *gorm.DB) error {
		for _, slot := range schedule.Slots {
			if err := tx.Where("schedule_slot_id = ?", slot.ID).
				Delete(&models.ScheduledMedication{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("medication_schedule_id = ?", schedule.ID).
			Delete(&models.ScheduleSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("medication_schedule_id = ?", schedule.ID).
			Delete(&models.WeeklyAdjustment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MedicationSchedule{}, schedule.ID).Error
	})
}
