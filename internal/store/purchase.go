package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/diewo77/concesionaria/internal/models"
)

// PurchaseStore reads the purchase records produced by checkout.
type PurchaseStore struct {
	db *gorm.DB
}

func NewPurchaseStore(db *gorm.DB) *PurchaseStore { return &PurchaseStore{db: db} }

// ListByUser returns the user's purchases, newest first.
func (s *PurchaseStore) ListByUser(ctx context.Context, userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&purchases).Error
	return purchases, err
}

// GetByID returns a purchase with its cart lines and vehicles preloaded.
// Callers decide who may see it.
func (s *PurchaseStore) GetByID(ctx context.Context, id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.db.WithContext(ctx).
		Preload("Cart.Items.Vehicle").
		First(&purchase, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// ListAll returns every purchase with its buyer preloaded, newest first.
func (s *PurchaseStore) ListAll(ctx context.Context) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("id DESC").
		Find(&purchases).Error
	return purchases, err
}
