package entitlements

import (
	"context"
	"errors"
	"testing"

	"github.com/fennecpay/fennec/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepository struct {
	customer *models.Customer
	sub      *models.Subscription
	order    *models.Order

	customerErr error
	subErr      error
	orderErr    error

	lastEmail       string
	lastSubFilter   Filter
	lastOrderFilter Filter
}

func (f *fakeRepository) GetCustomerByEmail(email string) (*models.Customer, error) {
	f.lastEmail = email
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	if f.customer == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.customer, nil
}

func (f *fakeRepository) FindEntitlingSubscription(customerID uint64, filter Filter) (*models.Subscription, error) {
	f.lastSubFilter = filter
	if f.subErr != nil {
		return nil, f.subErr
	}
	if f.sub == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.sub, nil
}

func (f *fakeRepository) FindLatestPaidOrder(customerID uint64, filter Filter) (*models.Order, error) {
	f.lastOrderFilter = filter
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	if f.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.order, nil
}

func TestEvaluate_CustomerNotFound(t *testing.T) {
	service := NewService(&fakeRepository{})

	decision, err := service.Evaluate(context.Background(), "nobody@example.com", Filter{})
	require.NoError(t, err)
	assert.False(t, decision.HasAccess)
	assert.Equal(t, ReasonCustomerNotFound, decision.Reason)
	assert.Equal(t, "nobody@example.com", decision.CustomerEmail)
	assert.Nil(t, decision.MatchedSubscription)
	assert.Nil(t, decision.MatchedOrder)
}

func TestEvaluate_ActiveSubscriptionGrantsAccess(t *testing.T) {
	repo := &fakeRepository{
		customer: &models.Customer{ID: 1, Email: "sub@example.com"},
		sub:      &models.Subscription{ID: 11, CustomerID: 1, Status: models.SubscriptionStatusActive},
	}
	service := NewService(repo)

	decision, err := service.Evaluate(context.Background(), "sub@example.com", Filter{})
	require.NoError(t, err)
	assert.True(t, decision.HasAccess)
	assert.Equal(t, ReasonMatchedPaidState, decision.Reason)
	require.NotNil(t, decision.MatchedSubscription)
	assert.Equal(t, uint64(11), decision.MatchedSubscription.ID)
	assert.Nil(t, decision.MatchedOrder)
}

func TestEvaluate_PaidOrderAloneGrantsAccess(t *testing.T) {
	repo := &fakeRepository{
		customer: &models.Customer{ID: 2, Email: "buyer@example.com"},
		order:    &models.Order{ID: 21, CustomerID: 2, Status: models.OrderStatusPaid},
	}
	service := NewService(repo)

	decision, err := service.Evaluate(context.Background(), "buyer@example.com", Filter{})
	require.NoError(t, err)
	assert.True(t, decision.HasAccess)
	assert.Equal(t, ReasonMatchedPaidState, decision.Reason)
	assert.Nil(t, decision.MatchedSubscription)
	require.NotNil(t, decision.MatchedOrder)
	assert.Equal(t, uint64(21), decision.MatchedOrder.ID)
}

func TestEvaluate_NoPaidOrActiveState(t *testing.T) {
	repo := &fakeRepository{
		customer: &models.Customer{ID: 3, Email: "window@example.com"},
	}
	service := NewService(repo)

	decision, err := service.Evaluate(context.Background(), "window@example.com", Filter{})
	require.NoError(t, err)
	assert.False(t, decision.HasAccess)
	assert.Equal(t, ReasonNoPaidOrActiveState, decision.Reason)
}

func TestEvaluate_FilterReachesBothLookups(t *testing.T) {
	productID := uint64(5)
	priceID := uint64(7)
	repo := &fakeRepository{
		customer: &models.Customer{ID: 4, Email: "filter@example.com"},
	}
	service := NewService(repo)

	_, err := service.Evaluate(context.Background(), "filter@example.com", Filter{
		ProductID:      &productID,
		ProductPriceID: &priceID,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastSubFilter.ProductID)
	assert.Equal(t, productID, *repo.lastSubFilter.ProductID)
	require.NotNil(t, repo.lastOrderFilter.ProductPriceID)
	assert.Equal(t, priceID, *repo.lastOrderFilter.ProductPriceID)
}

func TestEvaluate_LowercasesEmailLikeCheckout(t *testing.T) {
	// checkout stores emails lowercased against a case-sensitive column;
	// a mixed-case lookup for the same address must still match
	repo := &fakeRepository{
		customer: &models.Customer{ID: 5, Email: "mixed@example.com"},
		sub:      &models.Subscription{ID: 51, CustomerID: 5, Status: models.SubscriptionStatusActive},
	}
	service := NewService(repo)

	decision, err := service.Evaluate(context.Background(), "  Mixed@Example.COM ", Filter{})
	require.NoError(t, err)
	assert.Equal(t, "mixed@example.com", repo.lastEmail)
	assert.Equal(t, "mixed@example.com", decision.CustomerEmail)
	assert.True(t, decision.HasAccess)
}

func TestEvaluate_EmptyEmail(t *testing.T) {
	service := NewService(&fakeRepository{})

	_, err := service.Evaluate(context.Background(), "   ", Filter{})
	require.Error(t, err)
}

func TestEvaluate_LookupErrorsPropagate(t *testing.T) {
	repo := &fakeRepository{
		customer: &models.Customer{ID: 6, Email: "err@example.com"},
		subErr:   errors.New("db unavailable"),
	}
	service := NewService(repo)

	_, err := service.Evaluate(context.Background(), "err@example.com", Filter{})
	require.Error(t, err)
}
