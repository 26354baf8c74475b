package service

import (
	"strings"

	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// AddressService 用户地址簿
type AddressService struct {
	addressRepo    repository.ShippingAddressRepository
	defaultCountry string
}

// NewAddressService 创建地址簿服务
func NewAddressService(addressRepo repository.ShippingAddressRepository, policy ShippingPolicy) *AddressService {
	return &AddressService{addressRepo: addressRepo, defaultCountry: policy.DomesticCountry}
}

// AddressInput 新增地址
type AddressInput struct {
	FirstName    string `json:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=32"`
	AddressLine1 string `json:"address_line1" validate:"required,max=255"`
	AddressLine2 string `json:"address_line2" validate:"omitempty,max=255"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"omitempty,max=100"`
	PostalCode   string `json:"postal_code" validate:"omitempty,max=20"`
	Country      string `json:"country" validate:"required,len=2,alpha"`
	IsDefault    bool   `json:"is_default"`
}

// List 用户地址列表
func (s *AddressService) List(userID uint) ([]models.ShippingAddress, error) {
	if userID == 0 {
		return nil, ErrIdentityInvalid
	}
	return s.addressRepo.ListByUser(userID)
}

// Create 新增地址；首个地址或显式默认时清除其他默认标记
func (s *AddressService) Create(userID uint, input AddressInput) (*models.ShippingAddress, error) {
	if userID == 0 {
		return nil, ErrIdentityInvalid
	}
	input.Country = strings.ToUpper(strings.TrimSpace(input.Country))
	if input.Country == "" {
		input.Country = s.defaultCountry
	}
	trimmed := []*string{&input.FirstName, &input.LastName, &input.Phone, &input.AddressLine1,
		&input.AddressLine2, &input.City, &input.State, &input.PostalCode}
	for _, field := range trimmed {
		*field = strings.TrimSpace(*field)
	}
	if err := shippingValidator.Struct(input); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return nil, &ValidationError{Code: ReasonAddressInvalid, Field: fieldErrs[0].Field()}
		}
		return nil, err
	}

	address := &models.ShippingAddress{
		UserID:       userID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Country:      input.Country,
		IsDefault:    input.IsDefault,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		existing, err := repo.ListByUser(userID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			address.IsDefault = true
		}
		if address.IsDefault && len(existing) > 0 {
			if err := repo.ClearDefault(userID); err != nil {
				return err
			}
		}
		return repo.Create(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}
