package domain

// Product Model
type Product struct {
	ProductID   uint    `gorm:"primaryKey" json:"product_id"`     // Primary key
	CatalogID   uint    `gorm:"index;not null" json:"catalog_id"` // Foreign key to Catalog
	ProductName string  `gorm:"not null" json:"product_name"`     // Display name of the product
	Price       float64 `gorm:"not null" json:"price"`            // Unit price
}
