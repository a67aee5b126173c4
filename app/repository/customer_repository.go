package repository

import (
	"strings"

	"github.com/fennecpay/fennec/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// customerRepository implements the CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// UpsertByEmail creates the customer on first checkout or refreshes the
// optional name on subsequent ones. Identity (the email) is immutable.
func (r *customerRepository) UpsertByEmail(email, name string) (*models.Customer, error) {
	customer := &models.Customer{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
	}

	assignments := clause.Assignments(map[string]interface{}{"updated_at": gorm.Expr("updated_at")})
	if customer.Name != "" {
		assignments = clause.AssignmentColumns([]string{"name", "updated_at"})
	}

	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: assignments,
	}).Create(customer).Error; err != nil {
		return nil, err
	}

	// Ensure ID is populated after upsert.
	if err := r.db.Where("email = ?", customer.Email).First(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// GetByEmail retrieves a customer by their email address
func (r *customerRepository) GetByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByID retrieves a customer by their ID
func (r *customerRepository) GetByID(id uint64) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
