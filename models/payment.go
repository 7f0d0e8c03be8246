package models

import (
	"time"
)

// Payment purpose constants
const (
	PaymentPurposeTopUp   = "top_up"
	PaymentPurposeBooking = "booking"
	PaymentPurposeOrder   = "order"
)

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment records a completed monetary event. Created once per
// successful top-up or wallet payment and immutable afterwards.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Currency  string    `json:"currency" gorm:"not null;default:NGN"`
	Status    string    `json:"status" gorm:"not null"`
	Purpose   string    `json:"purpose" gorm:"not null"`
	Reference string    `json:"reference" gorm:"uniqueIndex;not null"`
	Metadata  string    `json:"metadata"`
	BookingID *uint     `json:"booking_id"`
	OrderID   *uint     `json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TopupOrder tracks a gateway transaction initialized for a wallet
// top-up. It is closed out when the transaction is verified.
type TopupOrder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   uint      `json:"actor_id" gorm:"index;not null"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Reference string    `json:"reference" gorm:"uniqueIndex;not null"`
	Status    string    `json:"status" gorm:"not null;default:pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
