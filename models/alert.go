package models

import "time"

type Alert struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	Type      string    `gorm:"size:20"` // "risk" | "info"
	RiskLevel string    `gorm:"size:16"` // set when Type == "risk"
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time
}
