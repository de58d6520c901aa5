package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shipment_backoffice/internal/apperrors"
	"shipment_backoffice/internal/models"
)

type DriverDTO struct {
	ID            uint    `json:"id" form:"-"`
	Name          string  `json:"name" form:"name" validate:"required,max=100"`
	LicenseNumber string  `json:"license_number" form:"license_number" validate:"required,max=50"`
	ContactNumber *string `json:"contact_number,omitempty" form:"contact_number" validate:"omitempty,max=20"`
	Version       uint    `json:"version" form:"version"`
}

type DriverService interface {
	List(ctx context.Context) ([]DriverDTO, error)
	Find(ctx context.Context, id uint) (*DriverDTO, error)
	Create(ctx context.Context, input DriverDTO) (*DriverDTO, error)
	Update(ctx context.Context, id uint, input DriverDTO) error
	Delete(ctx context.Context, id uint) error
	// FindAssignedTruck returns the truck the driver is assigned to, or nil.
	FindAssignedTruck(ctx context.Context, driverID uint) (*TruckDTO, error)
}

type driverService struct {
	db *gorm.DB
}

func NewDriverService(db *gorm.DB) DriverService {
	return &driverService{db: db}
}

func driverQuery(db *gorm.DB) *gorm.DB {
	return db.Table("drivers").
		Select("drivers.id, drivers.name, drivers.license_number, drivers.contact_number, drivers.version")
}

func scanDrivers(q *gorm.DB) ([]DriverDTO, error) {
	drivers := []DriverDTO{}
	if err := q.Order("drivers.id").Scan(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

func (s *driverService) List(ctx context.Context) ([]DriverDTO, error) {
	drivers, err := scanDrivers(driverQuery(s.db.WithContext(ctx)))
	if err != nil {
		return nil, apperrors.Unhandled(err, "listing drivers")
	}
	return drivers, nil
}

func (s *driverService) Find(ctx context.Context, id uint) (*DriverDTO, error) {
	drivers, err := scanDrivers(driverQuery(s.db.WithContext(ctx)).Where("drivers.id = ?", id))
	if err != nil {
		return nil, apperrors.Unhandled(err, "finding driver %d", id)
	}
	if len(drivers) == 0 {
		return nil, notFound("Driver", id)
	}
	return &drivers[0], nil
}

func (s *driverService) Create(ctx context.Context, input DriverDTO) (*DriverDTO, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	driver := models.Driver{
		Name:          input.Name,
		LicenseNumber: input.LicenseNumber,
		ContactNumber: input.ContactNumber,
		Version:       1,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&driver).Error; err != nil {
		return nil, s.writeError(err, input.LicenseNumber, "creating driver")
	}
	return s.Find(ctx, driver.ID)
}

func (s *driverService) Update(ctx context.Context, id uint, input DriverDTO) error {
	if input.ID != id {
		return mismatch("Driver")
	}
	if err := validateInput(&input); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateVersioned(tx, &models.Driver{}, id, input.Version, map[string]interface{}{
			"name":           input.Name,
			"license_number": input.LicenseNumber,
			"contact_number": input.ContactNumber,
		}, "Driver")
	})
	if err != nil {
		return s.writeError(err, input.LicenseNumber, "updating driver %d", id)
	}
	return nil
}

// Delete removes the driver. Trucks driven by it lose their driver; open
// assignments block the delete.
func (s *driverService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Driver{}, id)
	if res.Error != nil {
		if classifyStoreError(res.Error) == storeErrForeignKey {
			return apperrors.ConflictWrap(res.Error,
				"Cannot delete driver with ID %d because there are associated shipments. Please unassign shipments first.", id)
		}
		return apperrors.Unhandled(res.Error, "deleting driver %d", id)
	}
	if res.RowsAffected == 0 {
		return notFound("Driver", id)
	}
	return nil
}

func (s *driverService) FindAssignedTruck(ctx context.Context, driverID uint) (*TruckDTO, error) {
	db := s.db.WithContext(ctx)
	ok, err := exists(db, &models.Driver{}, driverID)
	if err != nil {
		return nil, apperrors.Unhandled(err, "checking driver %d", driverID)
	}
	if !ok {
		return nil, notFound("Driver", driverID)
	}

	trucks, err := scanTrucks(truckQuery(db).Where("trucks.assigned_driver_id = ?", driverID).Limit(1))
	if err != nil {
		return nil, apperrors.Unhandled(err, "finding truck for driver %d", driverID)
	}
	if len(trucks) == 0 {
		return nil, nil
	}
	return &trucks[0], nil
}

func (s *driverService) writeError(err error, license string, format string, args ...interface{}) error {
	if classifyStoreError(err) == storeErrUnique {
		return apperrors.ConflictWrap(err, "A driver with license number %q already exists.", license)
	}
	return unhandled(err, format, args...)
}
