package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shipment_backoffice/internal/apperrors"
	"shipment_backoffice/internal/models"
)

// ShipmentDTO is the transfer shape for shipments. TruckModel is read-only.
type ShipmentDTO struct {
	ID          uint    `json:"id" form:"-"`
	Origin      string  `json:"origin" form:"origin" validate:"required,max=200"`
	Destination string  `json:"destination" form:"destination" validate:"required,max=200"`
	Distance    float64 `json:"distance" form:"distance" validate:"gte=0"`
	Status      string  `json:"status" form:"status" validate:"required,max=50"`
	TruckID     uint    `json:"truck_id" form:"truck_id" validate:"required"`
	TruckModel  string  `json:"truck_model,omitempty" form:"-"`
	Version     uint    `json:"version" form:"version"`
}

type ShipmentService interface {
	List(ctx context.Context) ([]ShipmentDTO, error)
	Find(ctx context.Context, id uint) (*ShipmentDTO, error)
	Create(ctx context.Context, input ShipmentDTO) (*ShipmentDTO, error)
	Update(ctx context.Context, id uint, input ShipmentDTO) error
	Delete(ctx context.Context, id uint) error
	ListForTruck(ctx context.Context, truckID uint) ([]ShipmentDTO, error)
	ListForDriver(ctx context.Context, driverID uint) ([]ShipmentDTO, error)
}

type shipmentService struct {
	db *gorm.DB
}

func NewShipmentService(db *gorm.DB) ShipmentService {
	return &shipmentService{db: db}
}

func shipmentQuery(db *gorm.DB) *gorm.DB {
	return db.Table("shipments").
		Select("shipments.id, shipments.origin, shipments.destination, shipments.distance, " +
			"shipments.status, shipments.truck_id, shipments.version, trucks.model AS truck_model").
		Joins("JOIN trucks ON trucks.id = shipments.truck_id")
}

func scanShipments(q *gorm.DB) ([]ShipmentDTO, error) {
	shipments := []ShipmentDTO{}
	if err := q.Order("shipments.id").Scan(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

func (s *shipmentService) List(ctx context.Context) ([]ShipmentDTO, error) {
	shipments, err := scanShipments(shipmentQuery(s.db.WithContext(ctx)))
	if err != nil {
		return nil, apperrors.Unhandled(err, "listing shipments")
	}
	return shipments, nil
}

func (s *shipmentService) Find(ctx context.Context, id uint) (*ShipmentDTO, error) {
	shipments, err := scanShipments(shipmentQuery(s.db.WithContext(ctx)).Where("shipments.id = ?", id))
	if err != nil {
		return nil, apperrors.Unhandled(err, "finding shipment %d", id)
	}
	if len(shipments) == 0 {
		return nil, notFound("Shipment", id)
	}
	return &shipments[0], nil
}

func (s *shipmentService) Create(ctx context.Context, input ShipmentDTO) (*ShipmentDTO, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	shipment := models.Shipment{
		Origin:      input.Origin,
		Destination: input.Destination,
		Distance:    input.Distance,
		Status:      input.Status,
		TruckID:     input.TruckID,
		Version:     1,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRef(tx, &models.Truck{}, input.TruckID, "Truck"); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&shipment).Error
	})
	if err != nil {
		return nil, s.writeError(err, input.TruckID, "creating shipment")
	}
	return s.Find(ctx, shipment.ID)
}

func (s *shipmentService) Update(ctx context.Context, id uint, input ShipmentDTO) error {
	if input.ID != id {
		return mismatch("Shipment")
	}
	if err := validateInput(&input); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Shipment{}, id, "Shipment"); err != nil {
			return err
		}
		if err := requireRef(tx, &models.Truck{}, input.TruckID, "Truck"); err != nil {
			return err
		}
		return updateVersioned(tx, &models.Shipment{}, id, input.Version, map[string]interface{}{
			"origin":      input.Origin,
			"destination": input.Destination,
			"distance":    input.Distance,
			"status":      input.Status,
			"truck_id":    input.TruckID,
		}, "Shipment")
	})
	if err != nil {
		return s.writeError(err, input.TruckID, "updating shipment %d", id)
	}
	return nil
}

func (s *shipmentService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Shipment{}, id)
	if res.Error != nil {
		if classifyStoreError(res.Error) == storeErrForeignKey {
			return apperrors.ConflictWrap(res.Error,
				"Cannot delete shipment with ID %d because there are assigned drivers. Please unassign drivers first.", id)
		}
		return apperrors.Unhandled(res.Error, "deleting shipment %d", id)
	}
	if res.RowsAffected == 0 {
		return notFound("Shipment", id)
	}
	return nil
}

func (s *shipmentService) ListForTruck(ctx context.Context, truckID uint) ([]ShipmentDTO, error) {
	shipments, err := scanShipments(shipmentQuery(s.db.WithContext(ctx)).Where("shipments.truck_id = ?", truckID))
	if err != nil {
		return nil, apperrors.Unhandled(err, "listing shipments for truck %d", truckID)
	}
	return shipments, nil
}

func (s *shipmentService) ListForDriver(ctx context.Context, driverID uint) ([]ShipmentDTO, error) {
	q := shipmentQuery(s.db.WithContext(ctx)).
		Joins("JOIN driver_shipments ON driver_shipments.shipment_id = shipments.id").
		Where("driver_shipments.driver_id = ?", driverID)
	shipments, err := scanShipments(q)
	if err != nil {
		return nil, apperrors.Unhandled(err, "listing shipments for driver %d", driverID)
	}
	return shipments, nil
}

func (s *shipmentService) writeError(err error, truckID uint, format string, args ...interface{}) error {
	if classifyStoreError(err) == storeErrForeignKey {
		return apperrors.Validation(fmt.Sprintf("Truck with ID %d does not exist.", truckID))
	}
	return unhandled(err, format, args...)
}
