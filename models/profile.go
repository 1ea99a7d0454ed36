package models

import "time"

// Profile is a rider's campus identity (one-to-one with User). FullName is
// the reference name ID-card verification checks against; Verified flips
// once a card scan matches it.
type Profile struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time `gorm:"index"`
	Active     bool       `gorm:"default:true;not null"`
	UserID     uint       `gorm:"uniqueIndex;not null"` // one-to-one relation
	User       User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FullName   string     `gorm:"size:255;not null"`
	RegNo      string     `gorm:"size:32;index"`
	Email      string     `gorm:"size:255"`
	Phone      string     `gorm:"size:64"`
	Department string     `gorm:"size:255"`
	Verified   bool       `gorm:"default:false;index"`
	VerifiedAt *time.Time
	// Verifications is the scan history for this profile.
	Verifications []Verification `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
