package services

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shipment_backoffice/internal/apperrors"
	"shipment_backoffice/internal/models"
)

// TruckDTO is the transfer shape for trucks. TruckImagePath and
// AssignedDriverName are filled on reads and ignored by Create and Update;
// the photo only changes through SetImagePath.
type TruckDTO struct {
	ID                  uint    `json:"id" form:"-"`
	Model               string  `json:"model" form:"model" validate:"required,max=100"`
	Mileage             float64 `json:"mileage" form:"mileage" validate:"gte=0"`
	LastMaintenanceDate string  `json:"last_maintenance_date" form:"last_maintenance_date" validate:"required,datetime=2006-01-02"`
	TruckImagePath      *string `json:"truck_image_path,omitempty" form:"-"`
	AssignedDriverID    *uint   `json:"assigned_driver_id,omitempty" form:"assigned_driver_id"`
	AssignedDriverName  *string `json:"assigned_driver_name,omitempty" form:"-"`
	Version             uint    `json:"version" form:"version"`
}

type TruckService interface {
	List(ctx context.Context) ([]TruckDTO, error)
	Find(ctx context.Context, id uint) (*TruckDTO, error)
	Create(ctx context.Context, input TruckDTO) (*TruckDTO, error)
	Update(ctx context.Context, id uint, input TruckDTO) error
	Delete(ctx context.Context, id uint) error
	ListShipments(ctx context.Context, truckID uint) ([]ShipmentDTO, error)
	SetImagePath(ctx context.Context, id uint, path string) (*TruckDTO, error)
}

type truckService struct {
	db *gorm.DB
}

func NewTruckService(db *gorm.DB) TruckService {
	return &truckService{db: db}
}

type truckRow struct {
	ID                  uint
	Model               string
	Mileage             float64
	LastMaintenanceDate datatypes.Date
	TruckImagePath      *string
	AssignedDriverID    *uint
	AssignedDriverName  *string
	Version             uint
}

func (r truckRow) dto() TruckDTO {
	return TruckDTO{
		ID:                  r.ID,
		Model:               r.Model,
		Mileage:             r.Mileage,
		LastMaintenanceDate: time.Time(r.LastMaintenanceDate).Format(DateLayout),
		TruckImagePath:      r.TruckImagePath,
		AssignedDriverID:    r.AssignedDriverID,
		AssignedDriverName:  r.AssignedDriverName,
		Version:             r.Version,
	}
}

func truckQuery(db *gorm.DB) *gorm.DB {
	return db.Table("trucks").
		Select("trucks.id, trucks.model, trucks.mileage, trucks.last_maintenance_date, " +
			"trucks.truck_image_path, trucks.assigned_driver_id, trucks.version, " +
			"drivers.name AS assigned_driver_name").
		Joins("LEFT JOIN drivers ON drivers.id = trucks.assigned_driver_id")
}

func scanTrucks(q *gorm.DB) ([]TruckDTO, error) {
	var rows []truckRow
	if err := q.Order("trucks.id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]TruckDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.dto())
	}
	return out, nil
}

func (s *truckService) List(ctx context.Context) ([]TruckDTO, error) {
	trucks, err := scanTrucks(truckQuery(s.db.WithContext(ctx)))
	if err != nil {
		return nil, apperrors.Unhandled(err, "listing trucks")
	}
	return trucks, nil
}

func (s *truckService) Find(ctx context.Context, id uint) (*TruckDTO, error) {
	trucks, err := scanTrucks(truckQuery(s.db.WithContext(ctx)).Where("trucks.id = ?", id))
	if err != nil {
		return nil, apperrors.Unhandled(err, "finding truck %d", id)
	}
	if len(trucks) == 0 {
		return nil, notFound("Truck", id)
	}
	return &trucks[0], nil
}

func (s *truckService) Create(ctx context.Context, input TruckDTO) (*TruckDTO, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	date, err := parseDate(input.LastMaintenanceDate)
	if err != nil {
		return nil, err
	}

	truck := models.Truck{
		Model:               input.Model,
		Mileage:             input.Mileage,
		LastMaintenanceDate: datatypes.Date(date),
		AssignedDriverID:    input.AssignedDriverID,
		Version:             1,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.AssignedDriverID != nil {
			if err := requireRef(tx, &models.Driver{}, *input.AssignedDriverID, "Driver"); err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Create(&truck).Error
	})
	if err != nil {
		return nil, s.writeError(err, "creating truck")
	}
	return s.Find(ctx, truck.ID)
}

func (s *truckService) Update(ctx context.Context, id uint, input TruckDTO) error {
	if input.ID != id {
		return mismatch("Truck")
	}
	if err := validateInput(&input); err != nil {
		return err
	}
	date, err := parseDate(input.LastMaintenanceDate)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Truck{}, id, "Truck"); err != nil {
			return err
		}
		if input.AssignedDriverID != nil {
			if err := requireRef(tx, &models.Driver{}, *input.AssignedDriverID, "Driver"); err != nil {
				return err
			}
		}
		return updateVersioned(tx, &models.Truck{}, id, input.Version, map[string]interface{}{
			"model":                 input.Model,
			"mileage":               input.Mileage,
			"last_maintenance_date": datatypes.Date(date),
			"assigned_driver_id":    input.AssignedDriverID,
		}, "Truck")
	})
	if err != nil {
		return s.writeError(err, "updating truck %d", id)
	}
	return nil
}

func (s *truckService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Truck{}, id)
	if res.Error != nil {
		if classifyStoreError(res.Error) == storeErrForeignKey {
			return apperrors.ConflictWrap(res.Error,
				"Cannot delete truck with ID %d because its shipments have assigned drivers. Please unassign drivers first.", id)
		}
		return apperrors.Unhandled(res.Error, "deleting truck %d", id)
	}
	if res.RowsAffected == 0 {
		return notFound("Truck", id)
	}
	return nil
}

func (s *truckService) ListShipments(ctx context.Context, truckID uint) ([]ShipmentDTO, error) {
	db := s.db.WithContext(ctx)
	ok, err := exists(db, &models.Truck{}, truckID)
	if err != nil {
		return nil, apperrors.Unhandled(err, "checking truck %d", truckID)
	}
	if !ok {
		return nil, notFound("Truck", truckID)
	}

	shipments, err := scanShipments(shipmentQuery(db).Where("shipments.truck_id = ?", truckID))
	if err != nil {
		return nil, apperrors.Unhandled(err, "listing shipments for truck %d", truckID)
	}
	return shipments, nil
}

// SetImagePath records a stored photo for the truck and bumps its version.
func (s *truckService) SetImagePath(ctx context.Context, id uint, path string) (*TruckDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateVersioned(tx, &models.Truck{}, id, 0, map[string]interface{}{
			"truck_image_path": path,
		}, "Truck")
	})
	if err != nil {
		return nil, unhandled(err, "setting image for truck %d", id)
	}
	return s.Find(ctx, id)
}

func (s *truckService) writeError(err error, format string, args ...interface{}) error {
	if classifyStoreError(err) == storeErrForeignKey {
		return apperrors.Validation("The assigned driver does not exist.")
	}
	return unhandled(err, format, args...)
}
