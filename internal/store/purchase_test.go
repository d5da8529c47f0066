package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/diewo77/concesionaria/internal/models"
	"github.com/diewo77/concesionaria/internal/store"
)

func seedPurchase(t *testing.T, dbi *gorm.DB, user *models.User, vehicle *models.Vehicle, reference string) *models.Purchase {
	t.Helper()
	cart := models.Cart{UserID: user.ID, Active: false}
	require.NoError(t, dbi.Create(&cart).Error)
	item := models.CartItem{CartID: cart.ID, VehicleID: vehicle.ID, Quantity: 2}
	require.NoError(t, dbi.Create(&item).Error)
	p := models.Purchase{UserID: user.ID, CartID: cart.ID, Reference: reference, Total: vehicle.Price * 2}
	require.NoError(t, dbi.Create(&p).Error)
	return &p
}

func TestPurchaseListByUserScopesToOwner(t *testing.T) {
	dbi := setupDB(t)
	s := store.NewPurchaseStore(dbi)
	ctx := context.Background()

	ana := createUser(t, dbi, "ana@example.com")
	luis := createUser(t, dbi, "luis@example.com")
	v := createVehicle(t, dbi, "Toyota", "Corolla", 100, 5)
	seedPurchase(t, dbi, ana, v, "CMP-ANA00001")
	seedPurchase(t, dbi, ana, v, "CMP-ANA00002")
	seedPurchase(t, dbi, luis, v, "CMP-LUIS0001")

	purchases, err := s.ListByUser(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	// Newest first.
	require.Equal(t, "CMP-ANA00002", purchases[0].Reference)
	require.Equal(t, "CMP-ANA00001", purchases[1].Reference)
}

func TestPurchaseGetByIDPreloadsCart(t *testing.T) {
	dbi := setupDB(t)
	s := store.NewPurchaseStore(dbi)
	ctx := context.Background()

	ana := createUser(t, dbi, "ana@example.com")
	v := createVehicle(t, dbi, "Toyota", "Corolla", 100, 5)
	seeded := seedPurchase(t, dbi, ana, v, "CMP-ANA00001")

	p, err := s.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "CMP-ANA00001", p.Reference)
	require.NotNil(t, p.Cart)
	require.Len(t, p.Cart.Items, 1)
	require.Equal(t, "Corolla", p.Cart.Items[0].Vehicle.Model)

	_, err = s.GetByID(ctx, 999)
	require.ErrorIs(t, err, store.ErrNotFound)
}
