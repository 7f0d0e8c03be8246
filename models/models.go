package models

import (
	"gorm.io/gorm"
)

// Role constants for the three actor types in the marketplace
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// User represents any actor in the system: a consumer booking rooms and
// ordering food, a manager running a business, or a platform admin.
type User struct {
	gorm.Model
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `json:"-"`
	Role      string `gorm:"not null;default:user" json:"role"`
	Phone     string `json:"phone"`
	IsBlocked bool   `json:"is_blocked"`

	Wallet Wallet `json:"wallet,omitempty" gorm:"foreignKey:ActorID"`
}

// Business category constants
const (
	BusinessCategoryHotel      = "hotel"
	BusinessCategoryRestaurant = "restaurant"
)

// Business represents a hotel/hostel or restaurant listed on the platform.
// ManagerID is nullable: a business without a resolvable manager still
// accepts wallet payments, with the revenue held as platform float.
type Business struct {
	gorm.Model
	Name      string `gorm:"not null" json:"name"`
	Category  string `gorm:"not null" json:"category"`
	City      string `json:"city"`
	Address   string `json:"address"`
	ManagerID *uint  `gorm:"index" json:"manager_id"`
	Manager   *User  `json:"-" gorm:"foreignKey:ManagerID"`
}
