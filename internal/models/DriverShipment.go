package models

import (
	"time"

	"gorm.io/gorm"
)

// DriverShipment links one driver to one shipment. It has its own surrogate
// key; the (driver, shipment) pair is unique.
type DriverShipment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	DriverID   uint      `gorm:"not null;uniqueIndex:idx_driver_shipment" json:"driver_id"`
	ShipmentID uint      `gorm:"not null;uniqueIndex:idx_driver_shipment;index" json:"shipment_id"`
	Role       *string   `gorm:"size:50" json:"role,omitempty"`
	AssignedOn time.Time `gorm:"not null" json:"assigned_on"`
	Version    uint      `gorm:"not null;default:1" json:"version"`
}

func (ds *DriverShipment) BeforeCreate(tx *gorm.DB) error {
	if ds.AssignedOn.IsZero() {
		ds.AssignedOn = time.Now().UTC()
	}
	return nil
}
