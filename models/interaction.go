package models

import "time"

// Risk levels the interaction checker can report, least to most severe.
// RiskUnknown ranks above RiskNone on purpose: an unknown result must never
// read as reassuring.
const (
	RiskNone    = "none"
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskSevere  = "severe"
	RiskUnknown = "unknown"
)

var riskRank = map[string]int{
	RiskNone:    0,
	RiskUnknown: 1,
	RiskLow:     2,
	RiskMedium:  3,
	RiskHigh:    4,
	RiskSevere:  5,
}

// RiskRank returns the severity rank of a risk level for ordering and
// threshold checks. Unrecognized strings rank as unknown.
func RiskRank(level string) int {
	if r, ok := riskRank[level]; ok {
		return r
	}
	return riskRank[RiskUnknown]
}

// ValidRiskLevel reports whether level is one of the five levels the
// knowledge collaborator may return (unknown is assigned, never accepted).
func ValidRiskLevel(level string) bool {
	switch level {
	case RiskNone, RiskLow, RiskMedium, RiskHigh, RiskSevere:
		return true
	}
	return false
}

// One completed interaction check, kept as per-user history.
type InteractionCheck struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	Medications string `gorm:"type:text"` // "; "-joined display names
	RiskLevel   string `gorm:"size:16"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}
