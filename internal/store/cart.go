package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/diewo77/concesionaria/internal/models"
)

// CartStore holds the per-user shopping carts.
type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore { return &CartStore{db: db} }

// ActiveCart returns the user's active cart with items and vehicles preloaded,
// or nil when the user has none.
func (s *CartStore) ActiveCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Preload("Items.Vehicle").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateActiveCart returns the user's active cart, creating an empty one
// when none exists. The partial unique index on (user_id) WHERE active makes
// this safe under concurrent calls: when the insert loses the race it refetches
// the winning cart.
func (s *CartStore) GetOrCreateActiveCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.ActiveCart(ctx, userID)
	if err != nil || cart != nil {
		return cart, err
	}
	fresh := models.Cart{UserID: userID, Active: true}
	if err := s.db.WithContext(ctx).Create(&fresh).Error; err != nil {
		// Unique violation: a concurrent request created the cart first.
		if winner, ferr := s.ActiveCart(ctx, userID); ferr == nil && winner != nil {
			return winner, nil
		}
		return nil, err
	}
	return &fresh, nil
}

// AddItem puts a vehicle in the cart. A vehicle already present gets its
// quantity incremented instead of a duplicate row, per the (cart, vehicle)
// uniqueness constraint.
func (s *CartStore) AddItem(ctx context.Context, cart *models.Cart, vehicle *models.Vehicle) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ? AND vehicle_id = ?", cart.ID, vehicle.ID).
		First(&item).Error
	switch {
	case err == nil:
		res := s.db.WithContext(ctx).
			Model(&item).
			Update("quantity", gorm.Expr("quantity + 1"))
		if res.Error != nil {
			return nil, res.Error
		}
		item.Quantity++
		return &item, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{CartID: cart.ID, VehicleID: vehicle.ID, Quantity: 1}
		if cerr := s.db.WithContext(ctx).Create(&item).Error; cerr != nil {
			// Concurrent add of the same vehicle: fall back to an increment.
			res := s.db.WithContext(ctx).
				Model(&models.CartItem{}).
				Where("cart_id = ? AND vehicle_id = ?", cart.ID, vehicle.ID).
				Update("quantity", gorm.Expr("quantity + 1"))
			if res.Error != nil || res.RowsAffected == 0 {
				return nil, cerr
			}
			return s.item(ctx, cart.ID, vehicle.ID)
		}
		return &item, nil
	default:
		return nil, err
	}
}

func (s *CartStore) item(ctx context.Context, cartID, vehicleID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ? AND vehicle_id = ?", cartID, vehicleID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes a line item, but only when it belongs to an active cart
// owned by userID. Anything else — absent item, someone else's cart, an
// already checked-out cart — is ErrNotFound.
func (s *CartStore) RemoveItem(ctx context.Context, itemID, userID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND cart_id IN (?)",
			itemID,
			s.db.Model(&models.Cart{}).Select("id").Where("user_id = ? AND active = ?", userID, true),
		).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate closes the cart after checkout, keeping it and its items as a
// historical record. The conditional update reports whether this call actually
// flipped the flag; a false return means a concurrent checkout got there first.
func (s *CartStore) Deactivate(ctx context.Context, cart *models.Cart) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND active = ?", cart.ID, true).
		Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	cart.Active = false
	return res.RowsAffected > 0, nil
}
