package domain

import "time"

// Order Model
type Order struct {
	OrderID   uint        `gorm:"primaryKey" json:"order_id"`                // Primary key
	BuyerID   uint        `gorm:"index;not null" json:"buyer_id"`            // Foreign key to User (buyer)
	SellerID  uint        `gorm:"index;not null" json:"seller_id"`           // Foreign key to User (seller)
	OrderDate time.Time   `gorm:"autoCreateTime" json:"order_date"`          // Defaults to creation time
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // Line items of this order
}
