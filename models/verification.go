package models

import "time"

// Verification records one ID-card scan attempt for a profile. Failed scans
// keep their row (with FailedReason) so the front-end and admins can review
// them instead of silently losing the attempt.
type Verification struct {
	ID            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ProfileID     uint    `gorm:"index;not null"`
	Profile       Profile `gorm:"foreignKey:ProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FileName      string  `gorm:"size:255;not null"`
	StorePath     string  `gorm:"column:store_path;size:512"` // relative path under the upload base
	ContentType   string  `gorm:"size:128"`
	ExtractedName string  `gorm:"size:255"`
	RegNo         string  `gorm:"size:32"`
	Institution   string  `gorm:"size:255"`
	Confidence    float64 // pipeline confidence 0-1
	Similarity    float64 // name-match similarity 0-1
	Matched       bool    `gorm:"default:false;index"`
	Failed        bool    `gorm:"default:false;index"`
	FailedReason  string  `gorm:"size:255"`
}
