package models

import "time"

// Shipment is a single origin/destination haul carried by one truck.
// Status is free text ("Pending", "In Transit", ...).
type Shipment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Origin      string    `gorm:"size:200;not null" json:"origin"`
	Destination string    `gorm:"size:200;not null" json:"destination"`
	Distance    float64   `gorm:"not null" json:"distance"`
	Status      string    `gorm:"size:50;not null" json:"status"`
	TruckID     uint      `gorm:"not null;index" json:"truck_id"`
	Version     uint      `gorm:"not null;default:1" json:"version"`

	Assignments []DriverShipment `gorm:"foreignKey:ShipmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}
