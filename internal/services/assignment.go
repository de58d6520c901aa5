package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shipment_backoffice/internal/apperrors"
	"shipment_backoffice/internal/models"
)

const (
	msgAlreadyAssigned    = "This driver is already assigned to this shipment."
	msgDriverNotFound     = "Driver not found."
	msgShipmentNotFound   = "Shipment not found."
	msgAssignmentNotFound = "Assignment not found."
)

// AssignmentDTO is the transfer shape for a driver/shipment assignment.
// The driver and shipment fields after Version are filled on reads only.
type AssignmentDTO struct {
	ID         uint      `json:"id"`
	DriverID   uint      `json:"driver_id" validate:"required"`
	ShipmentID uint      `json:"shipment_id" validate:"required"`
	Role       *string   `json:"role,omitempty" validate:"omitempty,max=50"`
	AssignedOn time.Time `json:"assigned_on"`
	Version    uint      `json:"version"`

	DriverName          string `json:"driver_name,omitempty"`
	ShipmentOrigin      string `json:"shipment_origin,omitempty"`
	ShipmentDestination string `json:"shipment_destination,omitempty"`
	ShipmentStatus      string `json:"shipment_status,omitempty"`
}

type AssignmentService interface {
	List(ctx context.Context) ([]AssignmentDTO, error)
	Find(ctx context.Context, id uint) (*AssignmentDTO, error)
	FindPair(ctx context.Context, driverID, shipmentID uint) (*AssignmentDTO, error)
	Assign(ctx context.Context, input AssignmentDTO) (*AssignmentDTO, error)
	Unassign(ctx context.Context, driverID, shipmentID uint) error
	Update(ctx context.Context, id uint, input AssignmentDTO) error
	Delete(ctx context.Context, id uint) error
	ListDriversForShipment(ctx context.Context, shipmentID uint) ([]DriverDTO, error)
	ListShipmentsForDriver(ctx context.Context, driverID uint) ([]ShipmentDTO, error)
}

type assignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) AssignmentService {
	return &assignmentService{db: db}
}

func assignmentQuery(db *gorm.DB) *gorm.DB {
	return db.Table("driver_shipments").
		Select("driver_shipments.id, driver_shipments.driver_id, driver_shipments.shipment_id, " +
			"driver_shipments.role, driver_shipments.assigned_on, driver_shipments.version, " +
			"drivers.name AS driver_name, shipments.origin AS shipment_origin, " +
			"shipments.destination AS shipment_destination, shipments.status AS shipment_status").
		Joins("JOIN drivers ON drivers.id = driver_shipments.driver_id").
		Joins("JOIN shipments ON shipments.id = driver_shipments.shipment_id")
}

func scanAssignments(q *gorm.DB) ([]AssignmentDTO, error) {
	assignments := []AssignmentDTO{}
	if err := q.Order("driver_shipments.id").Scan(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *assignmentService) List(ctx context.Context) ([]AssignmentDTO, error) {
	assignments, err := scanAssignments(assignmentQuery(s.db.WithContext(ctx)))
	if err != nil {
		return nil, apperrors.Unhandled(err, "listing assignments")
	}
	return assignments, nil
}

func (s *assignmentService) Find(ctx context.Context, id uint) (*AssignmentDTO, error) {
	assignments, err := scanAssignments(assignmentQuery(s.db.WithContext(ctx)).Where("driver_shipments.id = ?", id))
	if err != nil {
		return nil, apperrors.Unhandled(err, "finding assignment %d", id)
	}
	if len(assignments) == 0 {
		return nil, notFound("DriverShipment", id)
	}
	return &assignments[0], nil
}

func (s *assignmentService) FindPair(ctx context.Context, driverID, shipmentID uint) (*AssignmentDTO, error) {
	q := assignmentQuery(s.db.WithContext(ctx)).
		Where("driver_shipments.driver_id = ? AND driver_shipments.shipment_id = ?", driverID, shipmentID)
	assignments, err := scanAssignments(q)
	if err != nil {
		return nil, apperrors.Unhandled(err, "finding assignment of driver %d to shipment %d", driverID, shipmentID)
	}
	if len(assignments) == 0 {
		return nil, apperrors.NotFound(msgAssignmentNotFound)
	}
	return &assignments[0], nil
}

// Assign links a driver to a shipment. The duplicate check runs before the
// existence checks.
func (s *assignmentService) Assign(ctx context.Context, input AssignmentDTO) (*AssignmentDTO, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	assignment := models.DriverShipment{
		DriverID:   input.DriverID,
		ShipmentID: input.ShipmentID,
		Role:       input.Role,
		AssignedOn: input.AssignedOn.UTC(),
		Version:    1,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := pairTaken(tx, input.DriverID, input.ShipmentID, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict(msgAlreadyAssigned)
		}

		ok, err := exists(tx, &models.Driver{}, input.DriverID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NotFound(msgDriverNotFound)
		}
		if ok, err = exists(tx, &models.Shipment{}, input.ShipmentID); err != nil {
			return err
		}
		if !ok {
			return apperrors.NotFound(msgShipmentNotFound)
		}

		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, s.writeError(err, "assigning driver %d to shipment %d", input.DriverID, input.ShipmentID)
	}
	return s.Find(ctx, assignment.ID)
}

func (s *assignmentService) Unassign(ctx context.Context, driverID, shipmentID uint) error {
	res := s.db.WithContext(ctx).
		Where("driver_id = ? AND shipment_id = ?", driverID, shipmentID).
		Delete(&models.DriverShipment{})
	if res.Error != nil {
		return apperrors.Unhandled(res.Error, "unassigning driver %d from shipment %d", driverID, shipmentID)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(msgAssignmentNotFound)
	}
	return nil
}

// Update rewrites an assignment. A zero AssignedOn keeps the stored value.
func (s *assignmentService) Update(ctx context.Context, id uint, input AssignmentDTO) error {
	if input.ID != id {
		return mismatch("DriverShipment")
	}
	if err := validateInput(&input); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.DriverShipment{}, id, "DriverShipment"); err != nil {
			return err
		}
		taken, err := pairTaken(tx, input.DriverID, input.ShipmentID, id)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict(msgAlreadyAssigned)
		}
		if err := requireRef(tx, &models.Driver{}, input.DriverID, "Driver"); err != nil {
			return err
		}
		if err := requireRef(tx, &models.Shipment{}, input.ShipmentID, "Shipment"); err != nil {
			return err
		}

		values := map[string]interface{}{
			"driver_id":   input.DriverID,
			"shipment_id": input.ShipmentID,
			"role":        input.Role,
		}
		if !input.AssignedOn.IsZero() {
			values["assigned_on"] = input.AssignedOn.UTC()
		}
		return updateVersioned(tx, &models.DriverShipment{}, id, input.Version, values, "DriverShipment")
	})
	if err != nil {
		return s.writeError(err, "updating assignment %d", id)
	}
	return nil
}

func (s *assignmentService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.DriverShipment{}, id)
	if res.Error != nil {
		return apperrors.Unhandled(res.Error, "deleting assignment %d", id)
	}
	if res.RowsAffected == 0 {
		return notFound("DriverShipment", id)
	}
	return nil
}

func (s *assignmentService) ListDriversForShipment(ctx context.Context, shipmentID uint) ([]DriverDTO, error) {
	q := driverQuery(s.db.WithContext(ctx)).
		Joins("JOIN driver_shipments ON driver_shipments.driver_id = drivers.id").
		Where("driver_shipments.shipment_id = ?", shipmentID)
	drivers, err := scanDrivers(q)
	if err != nil {
		return nil, apperrors.Unhandled(err, "listing drivers for shipment %d", shipmentID)
	}
	return drivers, nil
}

func (s *assignmentService) ListShipmentsForDriver(ctx context.Context, driverID uint) ([]ShipmentDTO, error) {
	q := shipmentQuery(s.db.WithContext(ctx)).
		Joins("JOIN driver_shipments ON driver_shipments.shipment_id = shipments.id").
		Where("driver_shipments.driver_id = ?", driverID)
	shipments, err := scanShipments(q)
	if err != nil {
		return nil, apperrors.Unhandled(err, "listing shipments for driver %d", driverID)
	}
	return shipments, nil
}

// pairTaken reports whether another assignment (not exceptID) already links
// the pair.
func pairTaken(tx *gorm.DB, driverID, shipmentID, exceptID uint) (bool, error) {
	var n int64
	q := tx.Model(&models.DriverShipment{}).Where("driver_id = ? AND shipment_id = ?", driverID, shipmentID)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *assignmentService) writeError(err error, format string, args ...interface{}) error {
	switch classifyStoreError(err) {
	case storeErrUnique:
		return apperrors.ConflictWrap(err, msgAlreadyAssigned)
	case storeErrForeignKey:
		return apperrors.Validation("The driver or shipment does not exist.")
	}
	return unhandled(err, format, args...)
}
