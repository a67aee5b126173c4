package repository

import (
	"github.com/fennecpay/fennec/app/models"
	"gorm.io/gorm"
)

// CustomerRepository defines the interface for customer-related database operations
type CustomerRepository interface {
	UpsertByEmail(email, name string) (*models.Customer, error)
	GetByEmail(email string) (*models.Customer, error)
	GetByID(id uint64) (*models.Customer, error)
}

// ProductRepository defines the interface for product-related database operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint64) (*models.Product, error)
	List(activeOnly bool) ([]models.Product, error)
	Updates(id uint64, updates map[string]interface{}) (*models.Product, error)
	Delete(id uint64) error
}

// ProductPriceRepository defines the interface for price-related database operations
type ProductPriceRepository interface {
	Create(price *models.ProductPrice) error
	GetByID(id uint64) (*models.ProductPrice, error)
	GetActiveByID(id uint64) (*models.ProductPrice, error)
	List(activeOnly bool, productID *uint64) ([]models.ProductPrice, error)
	Updates(id uint64, updates map[string]interface{}) (*models.ProductPrice, error)
	Delete(id uint64) error
}

// OrderRepository defines the interface for order-related database operations
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint64) (*models.Order, error)
	ListByCustomer(customerID uint64, offset, limit int) ([]models.Order, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Customer     CustomerRepository
	Product      ProductRepository
	ProductPrice ProductPriceRepository
	Order        OrderRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Customer:     NewCustomerRepository(db),
		Product:      NewProductRepository(db),
		ProductPrice: NewProductPriceRepository(db),
		Order:        NewOrderRepository(db),
	}
}
