package models

import "time"

// Cart is a user's shopping cart. At most one cart per user may be active at a
// time; this is enforced with a partial unique index on (user_id) WHERE active,
// not just application logic, so concurrent get-or-create calls cannot produce
// two active carts.
//
// Checkout deactivates the cart instead of deleting it, keeping the cart and
// its items as the historical record behind the Purchase.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Active bool `gorm:"not null;default:true" json:"active"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// GetUserID implements the policy Ownable interface.
func (c *Cart) GetUserID() uint {
	return c.UserID
}

// Total sums price × quantity over the loaded items at their current vehicle
// prices. Items must be preloaded with their Vehicle.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Vehicle.Price * float64(item.Quantity)
	}
	return total
}

// CartItem is one line of a cart. The (cart_id, vehicle_id) pair is unique:
// adding a vehicle already in the cart increments Quantity instead of creating
// a second row.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CartID    uint    `gorm:"not null;uniqueIndex:idx_cart_vehicle" json:"cart_id"`
	VehicleID uint    `gorm:"not null;uniqueIndex:idx_cart_vehicle" json:"vehicle_id"`
	Vehicle   Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`

	Quantity int `gorm:"not null;default:1" json:"quantity"`
}
