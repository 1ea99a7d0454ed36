package models

import "time"

// Ride is a ride offer posted by a verified driver.
type Ride struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time `gorm:"index"`
	DriverID    uint       `gorm:"index;not null"`
	Driver      User       `gorm:"foreignKey:DriverID;references:ID"`
	Origin      string     `gorm:"size:255;not null"`
	Destination string     `gorm:"size:255;not null"`
	DepartAt    time.Time  `gorm:"index;not null"`
	Seats       int        `gorm:"not null"`
	Notes       string     `gorm:"size:512"`
}
