package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

var (
	ErrMissingFields       = errors.New("all fields are required")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrPasswordTooLong     = errors.New("password is too long")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrProfileFieldTooLong = errors.New("profile field too long")
)

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type ProfileInput struct {
	Address string
	Phone   string
}

type AuthService interface {
	Register(input RegisterInput) (*model.Customer, error)
	Login(email, password string) (*model.Customer, error)
	GetCustomer(id uint) (*model.Customer, error)
	UpdateProfile(customerID uint, input ProfileInput) (*model.Customer, error)
}

type authService struct {
	customerRepo repository.CustomerRepository
	validate     *validator.Validate
}

func NewAuthService(customerRepo repository.CustomerRepository) AuthService {
	return &authService{
		customerRepo: customerRepo,
		validate:     validator.New(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the form in order (missing fields, confirmation,
// length, email format, uniqueness) and stores a bcrypt hash.
func (s *authService) Register(input RegisterInput) (*model.Customer, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	logger.Info("Attempting customer registration", map[string]interface{}{
		"email": email,
	})

	if name == "" || email == "" || input.Password == "" || input.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(input.Password) > util.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	if len(name) > 120 {
		return nil, ErrProfileFieldTooLong
	}
	if err := s.validate.Var(email, "email,max=120"); err != nil {
		logger.Warn("Registration rejected: invalid email", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidEmail
	}

	existing, err := s.customerRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing customer", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration rejected: email already registered", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	customer := &model.Customer{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		// lost a race with a concurrent registration
		if apperrors.ParseError(err, "register").Code == apperrors.AuthEmailAlreadyExists {
			return nil, ErrEmailAlreadyExists
		}
		logger.Error("Failed to create customer", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("Customer registered successfully", map[string]interface{}{
		"customer_id": customer.ID,
		"email":       customer.Email,
	})
	return customer, nil
}

func (s *authService) Login(email, password string) (*model.Customer, error) {
	email = normalizeEmail(email)

	logger.Info("Attempting customer login", map[string]interface{}{
		"email": email,
	})

	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	customer, err := s.customerRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to fetch customer for login", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	if !util.VerifyPassword(customer.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"customer_id": customer.ID,
		})
		return nil, ErrInvalidCredentials
	}

	if util.PasswordNeedsRehash(customer.PasswordHash) {
		s.rehashPassword(customer, password)
	}

	logger.Info("Customer logged in successfully", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return customer, nil
}

// rehashPassword upgrades a hash made with an older cost. Failures only log;
// the old hash keeps working.
func (s *authService) rehashPassword(customer *model.Customer, password string) {
	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to rehash password", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return
	}
	customer.PasswordHash = hash
	if err := s.customerRepo.Update(customer); err != nil {
		logger.Error("Failed to store rehashed password", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
	}
}

func (s *authService) GetCustomer(id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to fetch customer", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}
	return customer, nil
}

// UpdateProfile replaces the address and phone; empty values clear them.
func (s *authService) UpdateProfile(customerID uint, input ProfileInput) (*model.Customer, error) {
	address := strings.TrimSpace(input.Address)
	phone := strings.TrimSpace(input.Phone)

	logger.Info("Updating customer profile", map[string]interface{}{
		"customer_id": customerID,
	})

	if len(address) > 255 || len(phone) > 20 {
		return nil, ErrProfileFieldTooLong
	}

	customer, err := s.GetCustomer(customerID)
	if err != nil {
		return nil, err
	}

	customer.Address = address
	customer.Phone = phone
	if err := s.customerRepo.Update(customer); err != nil {
		logger.Error("Failed to update customer profile", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	logger.Info("Customer profile updated successfully", map[string]interface{}{
		"customer_id": customerID,
	})
	return customer, nil
}
