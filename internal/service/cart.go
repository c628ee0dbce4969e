package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarochkin/keebshop/internal/models"
	"github.com/dmarochkin/keebshop/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

type CartView struct {
	Items      []models.CartItem
	TotalItems uint
	TotalPrice int64
}

// CartTotals derives the item count and price sum of a line set.
func CartTotals(items []models.CartItem) (count uint, price int64) {
	for _, it := range items {
		count += it.Quantity
		price += it.UnitPrice * int64(it.Quantity)
	}
	return count, price
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, price := CartTotals(items)
	return &CartView{Items: items, TotalItems: count, TotalPrice: price}, nil
}

// AddToCart merges into an existing line for the same product by summing
// quantities. The stored unit price is the product's discounted price at
// the time of the add.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, qty uint) (*models.CartItem, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if qty == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	prod, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product does not exist", ErrNotFound)
		}
		return nil, err
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Title:     prod.Title,
		UnitPrice: prod.EffectivePrice(),
		Quantity:  qty,
	}
	if err := s.Repo.UpsertCartItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetQuantity overwrites a line's quantity; zero or less removes the line
// and returns nil.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.CartItem, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	if qty <= 0 {
		if err := s.Repo.RemoveCartItem(ctx, userID, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: item not in cart", ErrNotFound)
			}
			return nil, err
		}
		return nil, nil
	}

	item, err := s.Repo.SetCartQuantity(ctx, userID, productID, uint(qty))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item not in cart", ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if err := s.Repo.RemoveCartItem(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: item not in cart", ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.Repo.ClearCart(ctx, userID)
}
