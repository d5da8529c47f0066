// Package services holds the multi-step business operations that span more
// than one store.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/concesionaria/internal/models"
	"github.com/diewo77/concesionaria/internal/store"
)

// ErrEmptyCart is returned by Finalize when the user has no active cart or the
// cart has no items. Nothing is mutated in that case.
var ErrEmptyCart = errors.New("cart is empty")

// CheckoutService converts an active cart into a finalized purchase.
type CheckoutService struct {
	db *gorm.DB
}

func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{db: db}
}

// Finalize runs the checkout for the user's active cart:
//
//  1. load the active cart; no cart or no items fails with ErrEmptyCart
//  2. total = Σ price × quantity at current vehicle prices (prices may have
//     drifted since the items were added; checkout-time prices win)
//  3. deduct each item's quantity from its vehicle's stock, floored at zero,
//     recomputing availability
//  4. deactivate the cart (kept with its items as the historical record)
//  5. persist the Purchase
//
// Everything runs in a single transaction, so a failure mid-way leaves stock
// untouched. The deactivation is conditional on the cart still being active:
// of two concurrent Finalize calls, exactly one commits and the other fails
// with ErrEmptyCart.
func (s *CheckoutService) Finalize(ctx context.Context, userID uint) (*models.Purchase, error) {
	var purchase *models.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := store.NewCartStore(tx)
		catalog := store.NewCatalogStore(tx)

		cart, err := carts.ActiveCart(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		total := cart.Total()

		for _, item := range cart.Items {
			if err := catalog.DecrementQuantity(ctx, item.VehicleID, item.Quantity); err != nil {
				return err
			}
		}

		flipped, err := carts.Deactivate(ctx, cart)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrEmptyCart
		}

		p := &models.Purchase{
			UserID:    userID,
			CartID:    cart.ID,
			Reference: NewReference(),
			Total:     total,
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		purchase = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// NewReference builds a short customer-facing purchase reference, e.g.
// CMP-3F2A9C1D.
func NewReference() string {
	id := uuid.New().String()
	return "CMP-" + strings.ToUpper(id[:8])
}
