package services

import (
	"context"
	"errors"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductService handles loan product master data
type ProductService struct {
	productRepo LoanProductStore
	logger      *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo LoanProductStore, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// ListProducts lists active loan products
func (s *ProductService) ListProducts(ctx context.Context) ([]*models.LoanProduct, error) {
	return s.productRepo.ListActive(ctx)
}

// GetProduct gets a loan product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.LoanProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// CreateProductInput represents create product input
type CreateProductInput struct {
	Code            string  `json:"code" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description,omitempty"`
	InterestRate    float64 `json:"interest_rate" validate:"required,gt=0"`
	MinAmount       float64 `json:"min_amount" validate:"required,gt=0"`
	MaxAmount       float64 `json:"max_amount" validate:"required,gt=0"`
	MaxTenureMonths int     `json:"max_tenure_months" validate:"required,gt=0"`
}

// CreateProduct creates a new loan product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*models.LoanProduct, error) {
	if input.MinAmount > input.MaxAmount || input.InterestRate <= 0 || input.MaxTenureMonths < 1 {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.productRepo.GetByCode(ctx, input.Code); err == nil {
		return nil, domain.ErrDuplicateEntry
	}

	product := &models.LoanProduct{
		Code:            input.Code,
		Name:            input.Name,
		Description:     input.Description,
		InterestRate:    input.InterestRate,
		MinAmount:       input.MinAmount,
		MaxAmount:       input.MaxAmount,
		MaxTenureMonths: input.MaxTenureMonths,
		IsActive:        true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("loan product created", zap.String("code", product.Code))
	return product, nil
}

// UpdateProductInput represents update product input
type UpdateProductInput struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	InterestRate    *float64 `json:"interest_rate"`
	MinAmount       *float64 `json:"min_amount"`
	MaxAmount       *float64 `json:"max_amount"`
	MaxTenureMonths *int     `json:"max_tenure_months"`
	IsActive        *bool    `json:"is_active"`
}

// UpdateProduct updates a loan product
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input *UpdateProductInput) (*models.LoanProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.InterestRate != nil {
		product.InterestRate = *input.InterestRate
	}
	if input.MinAmount != nil {
		product.MinAmount = *input.MinAmount
	}
	if input.MaxAmount != nil {
		product.MaxAmount = *input.MaxAmount
	}
	if input.MaxTenureMonths != nil {
		product.MaxTenureMonths = *input.MaxTenureMonths
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if product.MinAmount > product.MaxAmount {
		return nil, domain.ErrInvalidInput
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
