package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarochkin/keebshop/internal/models"
	"github.com/dmarochkin/keebshop/internal/payments"
)

type fakeProvider struct {
	intents map[string]*payments.Intent
	created int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{intents: map[string]*payments.Intent{}}
}

func (f *fakeProvider) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	f.created++
	intent := &payments.Intent{
		ID:           fmt.Sprintf("pi_test_%d", f.created),
		ClientSecret: fmt.Sprintf("pi_test_%d_secret", f.created),
		Amount:       amount,
		Currency:     currency,
		Status:       "requires_payment_method",
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakeProvider) GetIntent(ctx context.Context, id string) (*payments.Intent, error) {
	intent, ok := f.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: no such intent", payments.ErrProvider)
	}
	return intent, nil
}

func (f *fakeProvider) confirm(id string) {
	f.intents[id].Status = payments.IntentStatusSucceeded
}

func newCheckout(t *testing.T) (*CheckoutService, *CartService, *fakeProvider) {
	t.Helper()
	r := newTestRepo(t)
	provider := newFakeProvider()
	return &CheckoutService{
		Repo:     r,
		Provider: provider,
		Currency: "usd",
	}, &CartService{Repo: r}, provider
}

func TestCheckout_IntentForCartTotal(t *testing.T) {
	checkout, cart, _ := newCheckout(t)
	ctx := context.Background()

	user := seedUser(t, checkout.Repo, "buyer@example.com", "user")
	prod := seedProduct(t, checkout.Repo, "Board", 10000, 0, 10)

	_, err := cart.AddToCart(ctx, user.ID, prod.ID, 2)
	require.NoError(t, err)

	intent, err := checkout.CreateIntent(ctx, user.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 20000, intent.Amount)
	assert.Equal(t, "usd", intent.Currency)
	assert.NotEmpty(t, intent.ClientSecret)
}

func TestCheckout_IntentEmptyCart(t *testing.T) {
	checkout, _, _ := newCheckout(t)
	ctx := context.Background()

	user := seedUser(t, checkout.Repo, "buyer@example.com", "user")

	_, err := checkout.CreateIntent(ctx, user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckout_CompleteRecordsOrderAndDecrementsStock(t *testing.T) {
	checkout, cart, provider := newCheckout(t)
	ctx := context.Background()

	user := seedUser(t, checkout.Repo, "buyer@example.com", "user")
	prod := seedProduct(t, checkout.Repo, "Board", 10000, 0, 5)

	_, err := cart.AddToCart(ctx, user.ID, prod.ID, 2)
	require.NoError(t, err)

	intent, err := checkout.CreateIntent(ctx, user.ID)
	require.NoError(t, err)
	provider.confirm(intent.ID)

	order, err := checkout.Complete(ctx, user.ID, "", intent.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 20000, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.EqualValues(t, 2, order.Items[0].Quantity)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, "buyer@example.com", order.Email, "falls back to account email")

	got, err := checkout.Repo.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Quantity)

	view, err := cart.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items, "cart cleared after successful order")
}

func TestCheckout_CompleteRejectsUnconfirmedPayment(t *testing.T) {
	checkout, cart, _ := newCheckout(t)
	ctx := context.Background()

	user := seedUser(t, checkout.Repo, "buyer@example.com", "user")
	prod := seedProduct(t, checkout.Repo, "Board", 10000, 0, 5)

	_, err := cart.AddToCart(ctx, user.ID, prod.ID, 1)
	require.NoError(t, err)

	intent, err := checkout.CreateIntent(ctx, user.ID)
	require.NoError(t, err)

	_, err = checkout.Complete(ctx, user.ID, "", intent.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentFailed)
}

func TestCheckout_CompleteInsufficientStockRollsBack(t *testing.T) {
	checkout, cart, provider := newCheckout(t)
	ctx := context.Background()

	user := seedUser(t, checkout.Repo, "buyer@example.com", "user")
	prod := seedProduct(t, checkout.Repo, "Board", 10000, 0, 5)

	_, err := cart.AddToCart(ctx, user.ID, prod.ID, 7)
	require.NoError(t, err)

	intent, err := checkout.CreateIntent(ctx, user.ID)
	require.NoError(t, err)
	provider.confirm(intent.ID)

	_, err = checkout.Complete(ctx, user.ID, "", intent.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := checkout.Repo.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.Quantity, "stock untouched on rollback")

	view, err := cart.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1, "cart kept on failed completion")
}

func TestCheckout_DuplicateCompletionIsIdempotent(t *testing.T) {
	checkout, cart, provider := newCheckout(t)
	ctx := context.Background()

	user := seedUser(t, checkout.Repo, "buyer@example.com", "user")
	prod := seedProduct(t, checkout.Repo, "Board", 10000, 0, 5)

	_, err := cart.AddToCart(ctx, user.ID, prod.ID, 2)
	require.NoError(t, err)

	intent, err := checkout.CreateIntent(ctx, user.ID)
	require.NoError(t, err)
	provider.confirm(intent.ID)

	first, err := checkout.Complete(ctx, user.ID, "", intent.ID)
	require.NoError(t, err)

	second, err := checkout.Complete(ctx, user.ID, "", intent.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same intent resolves to the same order")

	got, err := checkout.Repo.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Quantity, "stock decremented once")
}

func TestCheckout_CompleteHidesOtherUsersOrders(t *testing.T) {
	checkout, cart, provider := newCheckout(t)
	ctx := context.Background()

	buyer := seedUser(t, checkout.Repo, "buyer@example.com", "user")
	other := seedUser(t, checkout.Repo, "other@example.com", "user")
	prod := seedProduct(t, checkout.Repo, "Board", 10000, 0, 5)

	_, err := cart.AddToCart(ctx, buyer.ID, prod.ID, 1)
	require.NoError(t, err)

	intent, err := checkout.CreateIntent(ctx, buyer.ID)
	require.NoError(t, err)
	provider.confirm(intent.ID)

	_, err = checkout.Complete(ctx, buyer.ID, "", intent.ID)
	require.NoError(t, err)

	// resubmitting the buyer's intent id from another account must not
	// hand over the buyer's order
	got, err := checkout.Complete(ctx, other.ID, "", intent.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
}

func TestCheckout_CompleteRejectsAmountMismatch(t *testing.T) {
	checkout, cart, provider := newCheckout(t)
	ctx := context.Background()

	user := seedUser(t, checkout.Repo, "buyer@example.com", "user")
	prod := seedProduct(t, checkout.Repo, "Board", 10000, 0, 5)

	_, err := cart.AddToCart(ctx, user.ID, prod.ID, 1)
	require.NoError(t, err)

	intent, err := checkout.CreateIntent(ctx, user.ID)
	require.NoError(t, err)
	provider.confirm(intent.ID)

	// cart changed between authorization and completion
	_, err = cart.AddToCart(ctx, user.ID, prod.ID, 1)
	require.NoError(t, err)

	_, err = checkout.Complete(ctx, user.ID, "", intent.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}
