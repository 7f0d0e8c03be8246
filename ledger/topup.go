package ledger

import (
	"errors"
	"fmt"

	"github.com/bookbite/bookbite/gateway"
	"github.com/bookbite/bookbite/models"
	"gorm.io/gorm"
)

// TopUpResult is the outcome of a top-up verification. When
// AlreadyProcessed is set the call was a replay: the wallet was
// credited by an earlier verification of the same reference and no new
// ledger line was written.
type TopUpResult struct {
	AlreadyProcessed bool
	Amount           int64
	Balance          int64
	TransactionID    uint
	Reference        string
}

// VerifyTopUp confirms a gateway transaction and credits the actor's
// wallet. The gateway is the sole authority on the paid amount; the
// call is idempotent on the transaction reference.
func (l *Ledger) VerifyTopUp(actor Actor, reference string) (*TopUpResult, error) {
	verification, err := l.gateway.VerifyTransaction(reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if verification.Status != gateway.VerificationStatusSuccess {
		return nil, ErrPaymentNotConfirmed
	}
	if verification.Amount <= 0 {
		return nil, ErrPaymentNotConfirmed
	}

	result, err := l.creditVerifiedTopUp(actor, reference, verification)
	if err != nil && isDuplicateKey(err) {
		// Lost a race against a concurrent verification of the same
		// reference. The other writer committed; report its result.
		return l.priorTopUp(reference)
	}
	return result, err
}

func (l *Ledger) creditVerifiedTopUp(actor Actor, reference string, verification *gateway.Verification) (*TopUpResult, error) {
	var result *TopUpResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var existing models.WalletTransaction
		err := tx.Where("reference = ?", reference).First(&existing).Error
		if err == nil {
			var wallet models.Wallet
			if err := tx.First(&wallet, existing.WalletID).Error; err != nil {
				return err
			}
			result = &TopUpResult{
				AlreadyProcessed: true,
				Amount:           existing.Amount,
				Balance:          wallet.Balance,
				TransactionID:    existing.ID,
				Reference:        reference,
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// When an initiation record exists, only the actor who initiated
		// the reference may claim its credit. A verify without one
		// (webhook replay after data cleanup) is still accepted.
		var initiation models.TopupOrder
		err = tx.Where("reference = ?", reference).First(&initiation).Error
		if err == nil {
			if initiation.ActorID != actor.ID {
				return ErrNotAuthorized
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		wallet, err := getOrCreateWallet(tx, actor)
		if err != nil {
			return err
		}

		if err := creditWallet(tx, wallet.ID, verification.Amount); err != nil {
			return err
		}

		description := fmt.Sprintf("Wallet top-up via Paystack (%s)", reference)
		line, err := appendTransaction(tx, wallet.ID, verification.Amount,
			models.TransactionTypeCredit, models.TransactionStatusSuccess, description, &reference)
		if err != nil {
			return err
		}

		currency := verification.Currency
		if currency == "" {
			currency = wallet.Currency
		}
		payment := models.Payment{
			UserID:    actor.ID,
			Amount:    verification.Amount,
			Currency:  currency,
			Status:    models.PaymentStatusSuccess,
			Purpose:   models.PaymentPurposeTopUp,
			Reference: reference,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// Close out the initialization record.
		if err := tx.Model(&models.TopupOrder{}).
			Where("reference = ?", reference).
			Update("status", "completed").Error; err != nil {
			return err
		}

		var updated models.Wallet
		if err := tx.First(&updated, wallet.ID).Error; err != nil {
			return err
		}
		result = &TopUpResult{
			Amount:        verification.Amount,
			Balance:       updated.Balance,
			TransactionID: line.ID,
			Reference:     reference,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// priorTopUp reports the committed result of an earlier verification of
// the same reference.
func (l *Ledger) priorTopUp(reference string) (*TopUpResult, error) {
	var existing models.WalletTransaction
	if err := l.db.Where("reference = ?", reference).First(&existing).Error; err != nil {
		return nil, err
	}
	var wallet models.Wallet
	if err := l.db.First(&wallet, existing.WalletID).Error; err != nil {
		return nil, err
	}
	return &TopUpResult{
		AlreadyProcessed: true,
		Amount:           existing.Amount,
		Balance:          wallet.Balance,
		TransactionID:    existing.ID,
		Reference:        reference,
	}, nil
}
