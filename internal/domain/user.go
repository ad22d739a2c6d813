package domain

// Roles a user can hold; fixed at registration
const (
	RoleBuyer  = "buyer"  // Can browse sellers and place orders
	RoleSeller = "seller" // Can own a catalog and receive orders
)

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`            // Primary key
	Username string `gorm:"unique;not null" json:"username"` // Unique username
	Password string `gorm:"not null" json:"-"`               // Hashed password, never serialized
	Role     string `gorm:"not null" json:"role"`            // Role: buyer or seller
}
