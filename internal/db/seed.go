package db

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/concesionaria/internal/models"
)

// Seed creates the core permissions, the default profiles and, when
// ADMIN_EMAIL/ADMIN_PASSWORD are set, a bootstrap admin account. All inserts
// are idempotent.
func Seed(db *gorm.DB) error {
	permissions := []struct {
		ResourceType string
		Action       string
		Description  string
	}{
		// Superadmin wildcard
		{"*", "*", "Full system access"},
		// Vehicle inventory
		{"vehicle", "*", "All vehicle actions"},
		{"vehicle", "list", "List the full inventory"},
		{"vehicle", "view", "View vehicle details"},
		{"vehicle", "create", "Create vehicles"},
		{"vehicle", "update", "Edit vehicles"},
		{"vehicle", "delete", "Delete vehicles"},
		// Purchase records
		{"purchase", "*", "All purchase actions"},
		{"purchase", "list", "List purchases"},
		{"purchase", "view", "View purchase details"},
	}
	for _, p := range permissions {
		perm := models.Permission{ResourceType: p.ResourceType, Action: p.Action, Description: p.Description}
		if err := db.Where("resource_type = ? AND action = ?", p.ResourceType, p.Action).
			FirstOrCreate(&perm).Error; err != nil {
			return err
		}
	}

	profiles := []struct {
		Name        string
		Description string
		Codes       []string
	}{
		{"administrador", "Full access to inventory and purchases", []string{"*:*"}},
		{"vendedor", "Read-only access to the inventory", []string{"vehicle:list", "vehicle:view", "purchase:list", "purchase:view"}},
	}
	for _, pr := range profiles {
		profile := models.Profile{Name: pr.Name, Description: pr.Description, IsSystem: true}
		if err := db.Where("name = ?", pr.Name).FirstOrCreate(&profile).Error; err != nil {
			return err
		}
		var perms []models.Permission
		for _, code := range pr.Codes {
			var perm models.Permission
			if err := db.Where("resource_type || ':' || action = ?", code).First(&perm).Error; err != nil {
				return err
			}
			perms = append(perms, perm)
		}
		if err := db.Model(&profile).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	var admin models.Profile
	if err := db.Where("name = ?", "administrador").First(&admin).Error; err != nil {
		return err
	}
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Email:     email,
		Name:      "Administrador",
		Password:  string(hash),
		ProfileID: &admin.ID,
	}).Error
}
