package repository

import (
	"github.com/fennecpay/fennec/app/models"
	"gorm.io/gorm"
)

// productPriceRepository implements the ProductPriceRepository interface
type productPriceRepository struct {
	db *gorm.DB
}

// NewProductPriceRepository creates a new product price repository instance
func NewProductPriceRepository(db *gorm.DB) ProductPriceRepository {
	return &productPriceRepository{db: db}
}

// Create creates a new price in the database
func (r *productPriceRepository) Create(price *models.ProductPrice) error {
	return r.db.Create(price).Error
}

// GetByID retrieves a price by its ID
func (r *productPriceRepository) GetByID(id uint64) (*models.ProductPrice, error) {
	var price models.ProductPrice
	err := r.db.First(&price, id).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// GetActiveByID retrieves a price that is still active, preloading its product
func (r *productPriceRepository) GetActiveByID(id uint64) (*models.ProductPrice, error) {
	var price models.ProductPrice
	err := r.db.Preload("Product").Where("id = ? AND active = ?", id, true).First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// List returns prices, optionally restricted to active ones and to a product
func (r *productPriceRepository) List(activeOnly bool, productID *uint64) ([]models.ProductPrice, error) {
	var prices []models.ProductPrice
	query := r.db.Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	err := query.Find(&prices).Error
	return prices, err
}

// Updates applies a partial update and returns the fresh row
func (r *productPriceRepository) Updates(id uint64, updates map[string]interface{}) (*models.ProductPrice, error) {
	tx := r.db.Model(&models.ProductPrice{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete removes a price row. Prices are normally deactivated instead.
func (r *productPriceRepository) Delete(id uint64) error {
	return r.db.Delete(&models.ProductPrice{}, id).Error
}
