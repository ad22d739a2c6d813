package domain

// OrderItem Model: one line item linking an order to a product.
// The composite primary key (order_id, product_id) makes repeated
// products within one order impossible at the schema level.
type OrderItem struct {
	OrderID   uint `gorm:"primaryKey;autoIncrement:false" json:"order_id"`   // Composite key part, foreign key to Order
	ProductID uint `gorm:"primaryKey;autoIncrement:false" json:"product_id"` // Composite key part, foreign key to Product
	Quantity  int  `gorm:"not null" json:"quantity"`                         // Units ordered
}
