// Package ledger implements the wallet store, the ledger engine and the
// payout review workflow. It is the only component allowed to mutate
// wallet balances, and every multi-step mutation runs inside a single
// database transaction.
package ledger

import (
	"github.com/bookbite/bookbite/gateway"
	"github.com/bookbite/bookbite/models"
	"gorm.io/gorm"
)

// Gateway is the slice of the payment provider the ledger needs:
// authoritative verification of an externally paid transaction.
type Gateway interface {
	VerifyTransaction(reference string) (*gateway.Verification, error)
}

// Actor is the resolved identity a ledger operation acts for. It is
// passed explicitly into every operation rather than read from ambient
// request state.
type Actor struct {
	ID   uint
	Role string
}

// Ledger coordinates balance mutation, transaction-log appends and
// cross-actor settlement over an injected database handle.
type Ledger struct {
	db      *gorm.DB
	gateway Gateway
}

// New creates a Ledger bound to the given database handle and gateway.
func New(db *gorm.DB, gw Gateway) *Ledger {
	return &Ledger{db: db, gateway: gw}
}

// managerForBusiness resolves the manager who owns a business, or nil
// if the business has no resolvable manager.
func managerForBusiness(tx *gorm.DB, businessID uint) (*uint, error) {
	var business models.Business
	if err := tx.First(&business, businessID).Error; err != nil {
		return nil, err
	}
	return business.ManagerID, nil
}
