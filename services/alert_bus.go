package services

import (
	"fmt"
	"time"

	"rxplain/models"

	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitRiskAlert records an interaction-risk alert and fans it out over
// websocket and push. Safe to call anywhere; a no-op before InitAlertDeps.
func EmitRiskAlert(userID uint, riskLevel, message string) {
	emit(userID, "risk", riskLevel, message)
}

func EmitInfoAlert(userID uint, message string) {
	emit(userID, "info", "", message)
}

func emit(userID uint, typ, riskLevel, message string) {
	if _alert.db == nil {
		return // not initialized
	}
	a := &models.Alert{
		UserID:    userID,
		Type:      typ,
		RiskLevel: riskLevel,
		Message:   message,
		CreatedAt: time.Now(),
	}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
	if _alert.ps != nil {
		title := "RxPlain Alert"
		if typ == "risk" {
			title = "Medication Interaction Warning"
		}
		_alert.ps.PushToUser(userID, title, message, map[string]string{
			"type": typ, "risk_level": riskLevel, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}
