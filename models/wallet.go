package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds platform funds for a single actor. Exactly one wallet per
// actor, enforced by the unique index on ActorID. Balance is stored in
// kobo (minor currency units) and must never go below zero.
type Wallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ActorID   uint           `json:"actor_id" gorm:"uniqueIndex;not null"`
	Role      string         `json:"role" gorm:"not null;default:user"`
	Balance   int64          `json:"balance" gorm:"not null;default:0"`
	Currency  string         `json:"currency" gorm:"not null;default:NGN"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// WalletTransaction is an append-only ledger line. Amount is always
// positive; the direction comes from Type. Rows are never mutated after
// creation, except a payout request's status/description transition
// from pending to success or failed.
type WalletTransaction struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	WalletID    uint           `json:"wallet_id" gorm:"index;not null"`
	Wallet      Wallet         `json:"-" gorm:"foreignKey:WalletID"`
	Amount      int64          `json:"amount" gorm:"not null"`
	Type        string         `json:"type" gorm:"not null"`
	Status      string         `json:"status" gorm:"not null"`
	Description string         `json:"description"`
	Reference   *string        `json:"reference" gorm:"uniqueIndex"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TransactionType constants
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// TransactionStatus constants
const (
	TransactionStatusPending = "pending"
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// PayoutDescriptionPrefix marks the transactions that represent manager
// withdrawal requests awaiting admin review.
const PayoutDescriptionPrefix = "Payout Request"
