package services

import (
	"fmt"
	"testing"
	"time"

	"rxplain/config"
	"rxplain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupScheduleDB points config.DB at a per-test in-memory database so the
// persistence paths (transactions, partial updates) run against real SQL.
func setupScheduleDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.MedicationSchedule{},
		&models.ScheduleSlot{},
		&models.ScheduledMedication{},
		&models.WeeklyAdjustment{},
	))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
}

func seedSchedule(t *testing.T, userID uint, notes string) *models.MedicationSchedule {
	t.Helper()
	s := &models.MedicationSchedule{
		UserID:       userID,
		SpecialNotes: notes,
		Slots: []models.ScheduleSlot{
			{TimeOfDay: models.TimeMorning, Medications: []models.ScheduledMedication{
				{Name: "Lisinopril", Dosage: "10mg"},
			}},
		},
	}
	require.NoError(t, config.DB.Create(s).Error)
	return s
}

func TestSetActiveEnforcesSingleActiveSchedule(t *testing.T) {
	setupScheduleDB(t)
	svc := NewScheduleService(&stubPlanner{})

	a := seedSchedule(t, 1, "first")
	b := seedSchedule(t, 1, "second")
	other := seedSchedule(t, 2, "someone else's")
	_, err := svc.SetActive(2, other.ID)
	require.NoError(t, err)

	activated, err := svc.SetActive(1, a.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	// Activating B must deactivate A in the same transaction.
	activated, err = svc.SetActive(1, b.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	reloadedA, err := svc.Get(1, a.ID)
	require.NoError(t, err)
	assert.False(t, reloadedA.IsActive)

	var active []models.MedicationSchedule
	require.NoError(t, config.DB.
		Where("user_id = ? AND is_active = ?", 1, true).
		Find(&active).Error)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	// Another user's active schedule is untouched.
	reloadedOther, err := svc.Get(2, other.ID)
	require.NoError(t, err)
	assert.True(t, reloadedOther.IsActive)
}

func TestSetActiveUnknownScheduleIsNotFound(t *testing.T) {
	setupScheduleDB(t)
	svc := NewScheduleService(&stubPlanner{})

	a := seedSchedule(t, 1, "mine")

	// Wrong owner: schedule exists but belongs to user 1.
	_, err := svc.SetActive(2, a.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdatePartialPatchPreservesUnsuppliedFields(t *testing.T) {
	setupScheduleDB(t)
	svc := NewScheduleService(&stubPlanner{})

	s := seedSchedule(t, 1, "take with water")
	require.NoError(t, config.DB.Model(s).
		Updates(map[string]any{
			"recommended_followup": "see doctor in 3 months",
			"updated_at":           time.Now().Add(-time.Hour),
		}).Error)
	before, err := svc.Get(1, s.ID)
	require.NoError(t, err)

	notes := "take with food"
	updated, err := svc.Update(1, s.ID, ScheduleUpdate{SpecialNotes: &notes})
	require.NoError(t, err)

	assert.Equal(t, "take with food", updated.SpecialNotes)
	assert.Equal(t, "see doctor in 3 months", updated.RecommendedFollowup,
		"unsupplied fields stay intact")
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt), "patch re-stamps UpdatedAt")

	reloaded, err := svc.Get(1, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "take with food", reloaded.SpecialNotes)
	assert.Equal(t, "see doctor in 3 months", reloaded.RecommendedFollowup)
}

func TestUpdateRejectsActivationFlag(t *testing.T) {
	setupScheduleDB(t)
	svc := NewScheduleService(&stubPlanner{})

	s := seedSchedule(t, 1, "notes")

	active := true
	_, err := svc.Update(1, s.ID, ScheduleUpdate{IsActive: &active})
	assert.ErrorIs(t, err, ErrActivationViaUpdate)

	reloaded, err := svc.Get(1, s.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive, "rejected patch must not activate")
}

func TestUpdateCanDeactivate(t *testing.T) {
	setupScheduleDB(t)
	svc := NewScheduleService(&stubPlanner{})

	s := seedSchedule(t, 1, "notes")
	_, err := svc.SetActive(1, s.ID)
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(1, s.ID, ScheduleUpdate{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}
