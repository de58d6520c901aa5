// internal/models/driver.go
package models

import "time"

// Driver is a person licensed to operate trucks. LicenseNumber is the
// business key and must be unique.
type Driver struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	LicenseNumber string    `gorm:"size:50;not null;uniqueIndex" json:"license_number"`
	ContactNumber *string   `gorm:"size:20" json:"contact_number,omitempty"`
	Version       uint      `gorm:"not null;default:1" json:"version"`

	// Assignments are protected: a driver cannot be removed while assigned.
	Assignments []DriverShipment `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}
