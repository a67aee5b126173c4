package entitlements

import (
	"context"
	"errors"
	"strings"

	"github.com/fennecpay/fennec/app/models"
	"gorm.io/gorm"
)

// Access decision reasons.
const (
	ReasonCustomerNotFound    = "customer_not_found"
	ReasonMatchedPaidState    = "matched_paid_state"
	ReasonNoPaidOrActiveState = "no_paid_or_active_state"
)

// Filter optionally narrows the access check to a product or price.
// A nil field is unconstrained; the same semantics apply to the
// subscription and the order lookup.
type Filter struct {
	ProductID      *uint64
	ProductPriceID *uint64
}

// Decision is the result of an access evaluation.
type Decision struct {
	HasAccess           bool                 `json:"has_access"`
	Reason              string               `json:"reason"`
	CustomerEmail       string               `json:"customer_email"`
	MatchedSubscription *models.Subscription `json:"matched_subscription"`
	MatchedOrder        *models.Order        `json:"matched_order"`
}

// Repository provides the read-only lookups behind access evaluation.
type Repository interface {
	GetCustomerByEmail(email string) (*models.Customer, error)
	FindEntitlingSubscription(customerID uint64, filter Filter) (*models.Subscription, error)
	FindLatestPaidOrder(customerID uint64, filter Filter) (*models.Order, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an entitlements repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetCustomerByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("email = ?", email).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *gormRepository) FindEntitlingSubscription(customerID uint64, filter Filter) (*models.Subscription, error) {
	query := r.db.
		Where("customer_id = ?", customerID).
		Where("status IN ?", []string{models.SubscriptionStatusTrialing, models.SubscriptionStatusActive})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.ProductPriceID != nil {
		query = query.Where("product_price_id = ?", *filter.ProductPriceID)
	}

	var sub models.Subscription
	if err := query.First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) FindLatestPaidOrder(customerID uint64, filter Filter) (*models.Order, error) {
	query := r.db.
		Where("customer_id = ?", customerID).
		Where("status = ?", models.OrderStatusPaid).
		Order("paid_at DESC")
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.ProductPriceID != nil {
		query = query.Where("product_price_id = ?", *filter.ProductPriceID)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Service answers whether a customer currently holds a paid or active
// entitlement. It is a pure read path and never mutates state.
type Service struct {
	repo Repository
}

// NewService creates an entitlements service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates an entitlements service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Evaluate resolves the customer by email and checks, independently,
// for a trialing/active subscription and for the most recent paid
// order matching the optional filter. Access is granted when either
// exists. The email is lowercased the same way checkout stores it, so
// a casing difference never denies access against the case-sensitive
// email column.
func (s *Service) Evaluate(ctx context.Context, email string, filter Filter) (*Decision, error) {
	_ = ctx
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("customer email is required")
	}

	customer, err := s.repo.GetCustomerByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Decision{
				HasAccess:     false,
				Reason:        ReasonCustomerNotFound,
				CustomerEmail: email,
			}, nil
		}
		return nil, err
	}

	sub, err := s.repo.FindEntitlingSubscription(customer.ID, filter)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	order, err := s.repo.FindLatestPaidOrder(customer.ID, filter)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	decision := &Decision{
		HasAccess:           sub != nil || order != nil,
		CustomerEmail:       email,
		MatchedSubscription: sub,
		MatchedOrder:        order,
	}
	if decision.HasAccess {
		decision.Reason = ReasonMatchedPaidState
	} else {
		decision.Reason = ReasonNoPaidOrActiveState
	}
	return decision, nil
}
