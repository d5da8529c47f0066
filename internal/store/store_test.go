package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/concesionaria/internal/db"
	"github.com/diewo77/concesionaria/internal/models"
)

// setupDB opens a fresh in-memory database, one per test, with the full
// schema including the partial active-cart index.
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

func createUser(t *testing.T, dbi *gorm.DB, email string) *models.User {
	t.Helper()
	u := models.User{Email: email, Password: "hash"}
	require.NoError(t, dbi.Create(&u).Error)
	return &u
}

func createVehicle(t *testing.T, dbi *gorm.DB, brand, model string, price float64, quantity int) *models.Vehicle {
	t.Helper()
	v := models.Vehicle{Brand: brand, Model: model, Price: price, Quantity: quantity}
	v.SyncAvailability()
	require.NoError(t, dbi.Create(&v).Error)
	return &v
}
