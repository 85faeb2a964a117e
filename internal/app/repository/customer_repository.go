package repository

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindByID(id uint) (*model.Customer, error)
	FindByEmail(email string) (*model.Customer, error)
	Update(customer *model.Customer) error
	WithTx(tx *gorm.DB) CustomerRepository
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepository{db: tx}
}

func (r *customerRepository) Create(customer *model.Customer) error {
	logger.Debug("Creating customer in database", map[string]interface{}{
		"email": customer.Email,
	})

	if err := r.db.Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, map[string]interface{}{
			"email": customer.Email,
		})
		return err
	}

	logger.Debug("Customer created in database", map[string]interface{}{
		"customer_id": customer.ID,
		"email":       customer.Email,
	})
	return nil
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	logger.Debug("Finding customer by ID in database", map[string]interface{}{
		"customer_id": id,
	})

	var customer model.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		logLookupError("Failed to find customer by ID in database", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) FindByEmail(email string) (*model.Customer, error) {
	logger.Debug("Finding customer by email in database", map[string]interface{}{
		"email": email,
	})

	var customer model.Customer
	if err := r.db.Where("email = ?", email).First(&customer).Error; err != nil {
		logLookupError("Failed to find customer by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Debug("Customer found by email in database", map[string]interface{}{
		"customer_id": customer.ID,
		"email":       customer.Email,
	})
	return &customer, nil
}

func (r *customerRepository) Update(customer *model.Customer) error {
	logger.Debug("Updating customer in database", map[string]interface{}{
		"customer_id": customer.ID,
	})

	if err := r.db.Save(customer).Error; err != nil {
		logger.Error("Failed to update customer in database", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return err
	}

	logger.Debug("Customer updated in database", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return nil
}

// logLookupError keeps expected misses out of the error log.
func logLookupError(msg string, err error, fields map[string]interface{}) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}
