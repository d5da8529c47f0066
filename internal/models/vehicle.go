package models

import "time"

// Vehicle is a catalog entry offered by the dealership.
//
// Availability is never set directly from user input: Available must equal
// Quantity > 0 after every mutation. Stores call SyncAvailability (or recompute
// the flag inside the UPDATE) before persisting.
type Vehicle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Brand     string  `gorm:"size:100;not null;index" json:"brand"`
	Model     string  `gorm:"size:100;not null;index" json:"model"`
	Price     float64 `gorm:"not null" json:"price"`
	Quantity  int     `gorm:"not null;default:0" json:"quantity"`
	Available bool    `gorm:"not null;default:false;index" json:"available"`
}

// SyncAvailability derives the Available flag from the current stock.
func (v *Vehicle) SyncAvailability() {
	v.Available = v.Quantity > 0
}

// Label returns the display name used in flash messages and listings.
func (v *Vehicle) Label() string {
	return v.Brand + " " + v.Model
}
