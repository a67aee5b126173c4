package repository

import (
	"github.com/fennecpay/fennec/app/models"
	"gorm.io/gorm"
)

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product in the database
func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// GetByID retrieves a product by its ID
func (r *productRepository) GetByID(id uint64) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns products, restricted to active ones unless activeOnly is false
func (r *productRepository) List(activeOnly bool) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Find(&products).Error
	return products, err
}

// Updates applies a partial update and returns the fresh row
func (r *productRepository) Updates(id uint64, updates map[string]interface{}) (*models.Product, error) {
	tx := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete removes a product (soft delete via gorm.DeletedAt)
func (r *productRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Product{}, id).Error
}
