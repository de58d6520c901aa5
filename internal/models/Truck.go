// internal/models/truck.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

type Truck struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	Model               string         `gorm:"size:100;not null" json:"model"`
	Mileage             float64        `gorm:"not null" json:"mileage"`
	LastMaintenanceDate datatypes.Date `json:"last_maintenance_date"`
	TruckImagePath      *string        `gorm:"size:255" json:"truck_image_path,omitempty"`
	AssignedDriverID    *uint          `gorm:"index" json:"assigned_driver_id,omitempty"`
	Version             uint           `gorm:"not null;default:1" json:"version"`

	// Associations
	AssignedDriver *Driver    `gorm:"foreignKey:AssignedDriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Shipments      []Shipment `gorm:"foreignKey:TruckID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
