package domain

// Catalog Model
type Catalog struct {
	CatalogID   uint   `gorm:"primaryKey" json:"catalog_id"`          // Primary key
	SellerID    uint   `gorm:"uniqueIndex;not null" json:"seller_id"` // Foreign key to User; one catalog per seller
	CatalogName string `gorm:"not null" json:"catalog_name"`          // Display name of the catalog
}
