package models

import "gorm.io/gorm"

// Canonical time-of-day buckets in chronological order.
const (
	TimeMorning = "Morning"
	TimeMidday  = "Midday"
	TimeEvening = "Evening"
	TimeNight   = "Night"
)

var timeOfDayOrder = map[string]int{
	TimeMorning: 0,
	TimeMidday:  1,
	TimeEvening: 2,
	TimeNight:   3,
}

// TimeOfDayRank orders slots chronologically. Unrecognized buckets sort last
// so a sloppy planner response still renders.
func TimeOfDayRank(timeOfDay string) int {
	if r, ok := timeOfDayOrder[timeOfDay]; ok {
		return r
	}
	return len(timeOfDayOrder)
}

// A synthesized dosing plan for one user. UserID never changes after create.
type MedicationSchedule struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	Slots       []ScheduleSlot
	Adjustments []WeeklyAdjustment

	SpecialNotes        string `gorm:"type:text"`
	RecommendedFollowup string `gorm:"type:text"`
	IsActive            bool
}

// One time-of-day slot of the daily plan.
type ScheduleSlot struct {
	gorm.Model
	MedicationScheduleID uint `gorm:"index"`

	TimeOfDay     string `gorm:"size:16;not null"` // Morning|Midday|Evening|Night
	SuggestedTime string // e.g. "8:00 AM"
	WithFood      bool

	Medications []ScheduledMedication
}

// One medication inside a slot, snapshot of name/dosage at synthesis time.
type ScheduledMedication struct {
	gorm.Model
	ScheduleSlotID uint `gorm:"index"`

	Name                string `gorm:"not null"`
	Dosage              string
	SpecialInstructions string `gorm:"type:text"`
}

// An exception to the daily plan, e.g. alternate-day dosing.
type WeeklyAdjustment struct {
	gorm.Model
	MedicationScheduleID uint `gorm:"index"`

	MedicationNames string // "; "-joined display names
	Days            string // "; "-joined day names
	Description     string `gorm:"type:text"`
}
