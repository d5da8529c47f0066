package models

import "time"

// Purchase is the immutable record produced by a successful checkout. It
// references the (deactivated) cart it was built from but does not own it.
// No UpdatedAt: a purchase is never modified after creation.
type Purchase struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	CartID uint  `gorm:"not null;index" json:"cart_id"`
	Cart   *Cart `gorm:"foreignKey:CartID" json:"cart,omitempty"`

	// Reference is a short customer-facing identifier (e.g. CMP-3F2A9C1D).
	Reference string `gorm:"size:20;uniqueIndex;not null" json:"reference"`

	// Total is the sum of price × quantity over the cart's items, evaluated
	// against vehicle prices at checkout time.
	Total float64 `gorm:"not null" json:"total"`
}

// GetUserID implements the policy Ownable interface.
func (p *Purchase) GetUserID() uint {
	return p.UserID
}
