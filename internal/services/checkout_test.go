package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/concesionaria/internal/db"
	"github.com/diewo77/concesionaria/internal/models"
	"github.com/diewo77/concesionaria/internal/services"
	"github.com/diewo77/concesionaria/internal/store"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbi, err := gorm.Open(
		sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(dbi))
	return dbi
}

// seedCart creates a user with an active cart holding the given vehicles.
func seedCart(t *testing.T, dbi *gorm.DB, lines map[*models.Vehicle]int) *models.User {
	t.Helper()
	user := models.User{Email: "ana@example.com", Password: "hash"}
	require.NoError(t, dbi.Create(&user).Error)

	carts := store.NewCartStore(dbi)
	cart, err := carts.GetOrCreateActiveCart(context.Background(), user.ID)
	require.NoError(t, err)
	for vehicle, qty := range lines {
		for i := 0; i < qty; i++ {
			_, err := carts.AddItem(context.Background(), cart, vehicle)
			require.NoError(t, err)
		}
	}
	return &user
}

func createVehicle(t *testing.T, dbi *gorm.DB, brand, model string, price float64, quantity int) *models.Vehicle {
	t.Helper()
	v := models.Vehicle{Brand: brand, Model: model, Price: price, Quantity: quantity}
	v.SyncAvailability()
	require.NoError(t, dbi.Create(&v).Error)
	return &v
}

func TestFinalizeHappyPath(t *testing.T) {
	dbi := setupDB(t)
	ctx := context.Background()

	corolla := createVehicle(t, dbi, "Toyota", "Corolla", 100, 5)
	fiesta := createVehicle(t, dbi, "Ford", "Fiesta", 50, 2)
	user := seedCart(t, dbi, map[*models.Vehicle]int{corolla: 2, fiesta: 1})

	checkout := services.NewCheckoutService(dbi)
	purchase, err := checkout.Finalize(ctx, user.ID)
	require.NoError(t, err)

	// 2×100 + 1×50 at checkout-time prices.
	require.Equal(t, 250.0, purchase.Total)
	require.Equal(t, user.ID, purchase.UserID)
	require.True(t, strings.HasPrefix(purchase.Reference, "CMP-"))

	// Stock deducted per line quantity.
	catalog := store.NewCatalogStore(dbi)
	got, err := catalog.GetByID(ctx, corolla.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.Quantity)
	require.True(t, got.Available)

	got, err = catalog.GetByID(ctx, fiesta.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Quantity)
	require.True(t, got.Available)

	// The cart is deactivated, not deleted, and keeps its items.
	carts := store.NewCartStore(dbi)
	active, err := carts.ActiveCart(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, active)

	var cart models.Cart
	require.NoError(t, dbi.Preload("Items").First(&cart, purchase.CartID).Error)
	require.False(t, cart.Active)
	require.Len(t, cart.Items, 2)
}

func TestFinalizeUsesCheckoutTimePrices(t *testing.T) {
	dbi := setupDB(t)
	ctx := context.Background()

	corolla := createVehicle(t, dbi, "Toyota", "Corolla", 100, 5)
	user := seedCart(t, dbi, map[*models.Vehicle]int{corolla: 1})

	// The price changes after the item was added; the new price wins.
	require.NoError(t, dbi.Model(corolla).Update("price", 120.0).Error)

	purchase, err := services.NewCheckoutService(dbi).Finalize(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 120.0, purchase.Total)
}

func TestFinalizeClampsStockAtZero(t *testing.T) {
	dbi := setupDB(t)
	ctx := context.Background()

	corolla := createVehicle(t, dbi, "Toyota", "Corolla", 100, 2)
	user := seedCart(t, dbi, map[*models.Vehicle]int{corolla: 3})

	purchase, err := services.NewCheckoutService(dbi).Finalize(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 300.0, purchase.Total)

	got, err := store.NewCatalogStore(dbi).GetByID(ctx, corolla.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)
	require.False(t, got.Available)
}

func TestFinalizeEmptyCart(t *testing.T) {
	dbi := setupDB(t)
	ctx := context.Background()

	user := models.User{Email: "ana@example.com", Password: "hash"}
	require.NoError(t, dbi.Create(&user).Error)

	checkout := services.NewCheckoutService(dbi)

	// No cart at all.
	_, err := checkout.Finalize(ctx, user.ID)
	require.ErrorIs(t, err, services.ErrEmptyCart)

	// An active cart with zero items is just as empty.
	_, err = store.NewCartStore(dbi).GetOrCreateActiveCart(ctx, user.ID)
	require.NoError(t, err)
	_, err = checkout.Finalize(ctx, user.ID)
	require.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestFinalizeTwiceFailsSecondTime(t *testing.T) {
	dbi := setupDB(t)
	ctx := context.Background()

	corolla := createVehicle(t, dbi, "Toyota", "Corolla", 100, 5)
	user := seedCart(t, dbi, map[*models.Vehicle]int{corolla: 1})

	checkout := services.NewCheckoutService(dbi)
	_, err := checkout.Finalize(ctx, user.ID)
	require.NoError(t, err)

	_, err = checkout.Finalize(ctx, user.ID)
	require.ErrorIs(t, err, services.ErrEmptyCart)

	// Stock was deducted exactly once.
	got, err := store.NewCatalogStore(dbi).GetByID(ctx, corolla.ID)
	require.NoError(t, err)
	require.Equal(t, 4, got.Quantity)
}

func TestNewReferenceFormat(t *testing.T) {
	ref := services.NewReference()
	require.True(t, strings.HasPrefix(ref, "CMP-"))
	require.Len(t, ref, 12)
	require.Equal(t, strings.ToUpper(ref), ref)

	require.NotEqual(t, ref, services.NewReference())
}
