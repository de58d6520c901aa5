package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shipment_backoffice/internal/apperrors"
)

// Services bundles one service per entity. Handlers depend on the
// interfaces only.
type Services struct {
	Trucks      TruckService
	Drivers     DriverService
	Shipments   ShipmentService
	Customers   CustomerService
	Assignments AssignmentService
}

func New(db *gorm.DB) *Services {
	return &Services{
		Trucks:      NewTruckService(db),
		Drivers:     NewDriverService(db),
		Shipments:   NewShipmentService(db),
		Customers:   NewCustomerService(db),
		Assignments: NewAssignmentService(db),
	}
}

func exists(tx *gorm.DB, model interface{}, id uint) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// requireRow fails with NotFound when the row being changed is missing.
func requireRow(tx *gorm.DB, model interface{}, id uint, label string) error {
	ok, err := exists(tx, model, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(label, id)
	}
	return nil
}

// requireRef fails with a validation error when a referenced row is missing.
func requireRef(tx *gorm.DB, model interface{}, id uint, label string) error {
	ok, err := exists(tx, model, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Validation(fmt.Sprintf("%s with ID %d does not exist.", label, id))
	}
	return nil
}

// updateVersioned overwrites the row with values if nobody changed it since
// the caller read it. expected is the version the caller saw; zero skips the
// comparison but the write is still guarded by the stored version.
func updateVersioned(tx *gorm.DB, model interface{}, id, expected uint, values map[string]interface{}, label string) error {
	var versions []uint
	if err := tx.Model(model).Where("id = ?", id).Pluck("version", &versions).Error; err != nil {
		return err
	}
	if len(versions) == 0 {
		return notFound(label, id)
	}
	current := versions[0]
	if expected != 0 && expected != current {
		return stale(label, id)
	}

	values["version"] = gorm.Expr("version + 1")
	res := tx.Model(model).Where("id = ? AND version = ?", id, current).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		ok, err := exists(tx, model, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(label, id)
		}
		return stale(label, id)
	}
	return nil
}

func notFound(label string, id uint) error {
	return apperrors.NotFound("%s with ID %d not found.", label, id)
}

func stale(label string, id uint) error {
	return apperrors.Concurrency("%s with ID %d was modified by another request; reload and retry.", label, id)
}

func mismatch(label string) error {
	return apperrors.Validation(label + " ID mismatch.")
}

// unhandled keeps taxonomy errors as they are and wraps anything else.
func unhandled(err error, format string, args ...interface{}) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Unhandled(err, format, args...)
}
