package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarochkin/keebshop/internal/events"
	"github.com/dmarochkin/keebshop/internal/logging"
	"github.com/dmarochkin/keebshop/internal/models"
	"github.com/dmarochkin/keebshop/internal/payments"
	"github.com/dmarochkin/keebshop/internal/repo"
)

type CheckoutService struct {
	Repo     *repo.GormRepo
	Provider payments.Provider
	Events   events.Publisher
	Currency string
}

// CreateIntent authorizes the current cart total with the payments
// provider and returns the intent whose client secret the browser uses
// for card confirmation.
func (s *CheckoutService) CreateIntent(ctx context.Context, userID uuid.UUID) (*payments.Intent, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	_, total := CartTotals(items)
	intent, err := s.Provider.CreateIntent(ctx, total, s.Currency, map[string]string{
		"user_id": userID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	return intent, nil
}

// Complete records the order for a confirmed payment. Stock decrements,
// the order insert and the cart wipe share one transaction: a shortfall
// on any line rolls everything back. The unique index on the intent id
// makes a duplicate submission return the first order instead of charging
// stock twice.
func (s *CheckoutService) Complete(ctx context.Context, userID uuid.UUID, email, intentID string) (*models.Order, error) {
	if intentID == "" {
		return nil, fmt.Errorf("%w: payment_intent_id required", ErrValidation)
	}

	if existing, err := s.Repo.GetOrderByIntent(ctx, intentID); err == nil {
		// Intent ids are guessable enough that the recorded order must
		// only ever go back to its owner.
		if existing.UserID != userID {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	intent, err := s.Provider.GetIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if intent.Status != payments.IntentStatusSucceeded {
		return nil, fmt.Errorf("%w: intent status %q", ErrPaymentFailed, intent.Status)
	}

	if email == "" {
		user, err := s.Repo.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		email = user.Email
	}

	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	_, total := CartTotals(items)
	if total != intent.Amount {
		return nil, fmt.Errorf("%w: cart total %d does not match authorized amount %d",
			ErrConflict, total, intent.Amount)
	}

	order := &models.Order{
		UserID:          userID,
		Email:           email,
		TotalAmount:     total,
		Status:          models.OrderStatusProcessing,
		PaymentIntentID: intentID,
	}
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.UnitPrice * int64(it.Quantity),
		})
	}

	err = s.Repo.InTx(func(tx *repo.GormRepo) error {
		for _, it := range items {
			if err := tx.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return fmt.Errorf("product %s: %w", it.ProductID, err)
			}
		}
		if _, err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		return tx.ClearCart(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		// Two completions can race past the existence check above; the
		// unique index stops the second insert, so hand back the winner.
		if existing, lookupErr := s.Repo.GetOrderByIntent(ctx, intentID); lookupErr == nil {
			if existing.UserID != userID {
				return nil, fmt.Errorf("%w: order not found", ErrNotFound)
			}
			return existing, nil
		}
		return nil, err
	}

	if s.Events != nil {
		l := logging.FromContext(ctx)
		event := map[string]any{
			"type":         "order_created",
			"order_id":     order.ID,
			"user_id":      userID,
			"total_amount": order.TotalAmount,
		}
		if err := s.Events.Publish(ctx, events.TopicOrderEvents, order.ID.String(), event); err != nil {
			l.Warn("event_publish_failed", "topic", events.TopicOrderEvents, "error", err)
		}
	}

	return order, nil
}
