package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking/Order status constants
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a room reservation at a hotel/hostel. The ledger only
// drives its payment fields and its transition to confirmed; the rest
// of its lifecycle is owned by the booking module.
type Booking struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
	BusinessID  uint      `json:"business_id" gorm:"index;not null"`
	Business    Business  `json:"-" gorm:"foreignKey:BusinessID"`
	RoomName    string    `json:"room_name"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	Status      string    `json:"status" gorm:"not null;default:pending"`
	TotalAmount int64     `json:"total_amount" gorm:"not null"`
	PaidAmount  int64     `json:"paid_amount" gorm:"not null;default:0"`
	PaymentID   *uint     `json:"payment_id"`
}

// Order is a restaurant food order. Same contract as Booking: the
// ledger confirms it and links the payment, nothing more.
type Order struct {
	gorm.Model
	UserID      uint     `json:"user_id" gorm:"index;not null"`
	User        User     `json:"-" gorm:"foreignKey:UserID"`
	BusinessID  uint     `json:"business_id" gorm:"index;not null"`
	Business    Business `json:"-" gorm:"foreignKey:BusinessID"`
	Status      string   `json:"status" gorm:"not null;default:pending"`
	TotalAmount int64    `json:"total_amount" gorm:"not null"`
	PaymentID   *uint    `json:"payment_id"`
}
