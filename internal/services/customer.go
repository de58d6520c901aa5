package services

import (
	"context"

	"gorm.io/gorm"

	"shipment_backoffice/internal/apperrors"
	"shipment_backoffice/internal/models"
)

type CustomerDTO struct {
	ID      uint   `json:"id"`
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=150"`
	Version uint   `json:"version"`
}

type CustomerService interface {
	List(ctx context.Context) ([]CustomerDTO, error)
	Find(ctx context.Context, id uint) (*CustomerDTO, error)
	Create(ctx context.Context, input CustomerDTO) (*CustomerDTO, error)
	Update(ctx context.Context, id uint, input CustomerDTO) error
	Delete(ctx context.Context, id uint) error
}

type customerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) CustomerService {
	return &customerService{db: db}
}

func (s *customerService) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("customers").
		Select("customers.id, customers.name, customers.email, customers.version").
		Order("customers.id")
}

func (s *customerService) List(ctx context.Context) ([]CustomerDTO, error) {
	customers := []CustomerDTO{}
	if err := s.query(ctx).Scan(&customers).Error; err != nil {
		return nil, apperrors.Unhandled(err, "listing customers")
	}
	return customers, nil
}

func (s *customerService) Find(ctx context.Context, id uint) (*CustomerDTO, error) {
	var customers []CustomerDTO
	if err := s.query(ctx).Where("customers.id = ?", id).Scan(&customers).Error; err != nil {
		return nil, apperrors.Unhandled(err, "finding customer %d", id)
	}
	if len(customers) == 0 {
		return nil, notFound("Customer", id)
	}
	return &customers[0], nil
}

func (s *customerService) Create(ctx context.Context, input CustomerDTO) (*CustomerDTO, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	customer := models.Customer{Name: input.Name, Email: input.Email, Version: 1}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, apperrors.Unhandled(err, "creating customer")
	}
	return s.Find(ctx, customer.ID)
}

func (s *customerService) Update(ctx context.Context, id uint, input CustomerDTO) error {
	if input.ID != id {
		return mismatch("Customer")
	}
	if err := validateInput(&input); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateVersioned(tx, &models.Customer{}, id, input.Version, map[string]interface{}{
			"name":  input.Name,
			"email": input.Email,
		}, "Customer")
	})
	if err != nil {
		return unhandled(err, "updating customer %d", id)
	}
	return nil
}

func (s *customerService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return apperrors.Unhandled(res.Error, "deleting customer %d", id)
	}
	if res.RowsAffected == 0 {
		return notFound("Customer", id)
	}
	return nil
}
