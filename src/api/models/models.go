package models

import "time"

type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Name         string `gorm:"size:64;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

type Influencer struct {
	ID            uint64 `gorm:"primaryKey"`
	Name          string `gorm:"size:64;not null"`
	TwitterHandle string `gorm:"size:64;uniqueIndex"`
	CreatedAt     time.Time
}

// AnalysisRun is the persisted summary of one influencer analysis; the full
// claim list stays ephemeral.
type AnalysisRun struct {
	ID                string `gorm:"primaryKey;size:36"`
	InfluencerID      uint64 `gorm:"index;not null"`
	TimeRange         string `gorm:"size:16;not null"`
	TotalClaims       int
	VerifiedCount     int
	VerificationRate  float64
	AverageConfidence float64
	CreatedAt         time.Time
}
