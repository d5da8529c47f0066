package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/concesionaria/internal/models"
)

// CatalogStore holds the vehicle listings.
type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore { return &CatalogStore{db: db} }

// ListAvailable returns all vehicles currently in stock. An empty slice is a
// valid result (empty catalog), distinct from a query error.
func (s *CatalogStore) ListAvailable(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.db.WithContext(ctx).
		Where("available = ?", true).
		Order("id desc").
		Find(&vehicles).Error
	return vehicles, err
}

// Search returns available vehicles whose brand or model contains query,
// case-insensitive. An empty query returns an empty result set, not the full
// catalog.
func (s *CatalogStore) Search(ctx context.Context, query string) ([]models.Vehicle, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Vehicle{}, nil
	}
	like := "%" + strings.ToLower(query) + "%"
	var vehicles []models.Vehicle
	err := s.db.WithContext(ctx).
		Where("available = ?", true).
		Where("lower(brand) LIKE ? OR lower(model) LIKE ?", like, like).
		Order("id desc").
		Find(&vehicles).Error
	return vehicles, err
}

// GetByID returns a vehicle regardless of availability (admin views).
func (s *CatalogStore) GetByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetAvailableByID returns a vehicle only when it is in stock; the public
// detail view uses this to hide unavailable listings.
func (s *CatalogStore) GetAvailableByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.WithContext(ctx).
		Where("id = ? AND available = ?", id, true).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Create persists a new vehicle. Availability is derived from the submitted
// quantity, never taken from caller input.
func (s *CatalogStore) Create(ctx context.Context, v *models.Vehicle) error {
	v.SyncAvailability()
	return s.db.WithContext(ctx).Create(v).Error
}

// Update persists changes to a vehicle, re-deriving availability from the new
// quantity.
func (s *CatalogStore) Update(ctx context.Context, v *models.Vehicle) error {
	v.SyncAvailability()
	return s.db.WithContext(ctx).Save(v).Error
}

// Delete removes a vehicle permanently.
func (s *CatalogStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Vehicle{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementQuantity deducts amount from a vehicle's stock, floored at zero,
// and recomputes availability — all inside a single UPDATE so concurrent
// checkouts against the same vehicle cannot lose updates. The right-hand
// `quantity` references the pre-update value in both sqlite and postgres, so
// `quantity > amount` is exactly "new quantity > 0".
func (s *CatalogStore) DecrementQuantity(ctx context.Context, id uint, amount int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":  gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", amount, amount),
			"available": gorm.Expr("quantity > ?", amount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// InventoryCounts summarizes the inventory for the admin dashboard.
type InventoryCounts struct {
	Total       int64
	Available   int64
	Unavailable int64
}

// ListAll returns the complete inventory, newest first, with counts.
func (s *CatalogStore) ListAll(ctx context.Context) ([]models.Vehicle, InventoryCounts, error) {
	var vehicles []models.Vehicle
	if err := s.db.WithContext(ctx).Order("id desc").Find(&vehicles).Error; err != nil {
		return nil, InventoryCounts{}, err
	}
	var counts InventoryCounts
	counts.Total = int64(len(vehicles))
	for _, v := range vehicles {
		if v.Available {
			counts.Available++
		} else {
			counts.Unavailable++
		}
	}
	return vehicles, counts, nil
}
