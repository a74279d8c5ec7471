package repositories

import (
	"context"

	"loanflow-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// LoanProductRepository handles loan product data access
type LoanProductRepository struct {
	db *gorm.DB
}

// NewLoanProductRepository creates a new loan product repository
func NewLoanProductRepository(db *gorm.DB) *LoanProductRepository {
	return &LoanProductRepository{db: db}
}

// Create creates a new loan product
func (r *LoanProductRepository) Create(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID gets a loan product by ID
func (r *LoanProductRepository) GetByID(ctx context.Context, id uint) (*models.LoanProduct, error) {
	var product models.LoanProduct
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByCode gets a loan product by its unique code
func (r *LoanProductRepository) GetByCode(ctx context.Context, code string) (*models.LoanProduct, error) {
	var product models.LoanProduct
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update updates a loan product
func (r *LoanProductRepository) Update(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// ListActive lists active loan products
func (r *LoanProductRepository) ListActive(ctx context.Context) ([]*models.LoanProduct, error) {
	var products []*models.LoanProduct
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&products).Error
	return products, err
}
