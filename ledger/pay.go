package ledger

import (
	"errors"
	"fmt"

	"github.com/bookbite/bookbite/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PayParams describes a wallet payment against a booking or order.
// Amount is in kobo; exactly one of BookingID/OrderID is set, matching
// Purpose.
type PayParams struct {
	Amount    int64
	Purpose   string
	BookingID uint
	OrderID   uint
}

// PayResult is the outcome of a successful wallet payment.
type PayResult struct {
	Balance         int64
	PaymentID       uint
	TransactionID   uint
	Reference       string
	ManagerCredited bool
}

// Pay spends wallet balance against a booking or order: debit the
// consumer, record the payment, confirm the target, and settle the
// amount into the owning manager's wallet. The whole sequence commits
// or rolls back as one unit; a business without a resolvable manager
// still takes the consumer's money and confirms the target, with the
// revenue held as platform float.
func (l *Ledger) Pay(actor Actor, params PayParams) (*PayResult, error) {
	if params.Purpose != models.PaymentPurposeBooking && params.Purpose != models.PaymentPurposeOrder {
		return nil, fmt.Errorf("%w: unknown payment purpose %q", ErrInvalidState, params.Purpose)
	}
	if params.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidState)
	}

	var result *PayResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		businessID, targetLabel, err := confirmTarget(tx, actor, params)
		if err != nil {
			return err
		}

		wallet, err := getOrCreateWallet(tx, actor)
		if err != nil {
			return err
		}
		if err := debitWallet(tx, wallet.ID, params.Amount); err != nil {
			return err
		}

		line, err := appendTransaction(tx, wallet.ID, params.Amount,
			models.TransactionTypeDebit, models.TransactionStatusSuccess,
			fmt.Sprintf("Wallet payment for %s", targetLabel), nil)
		if err != nil {
			return err
		}

		reference := "PAY-" + uuid.New().String()
		payment := models.Payment{
			UserID:    actor.ID,
			Amount:    params.Amount,
			Currency:  wallet.Currency,
			Status:    models.PaymentStatusSuccess,
			Purpose:   params.Purpose,
			Reference: reference,
			Metadata:  fmt.Sprintf(`{"%s_id":%d}`, params.Purpose, targetID(params)),
		}
		if params.Purpose == models.PaymentPurposeBooking {
			payment.BookingID = &params.BookingID
		} else {
			payment.OrderID = &params.OrderID
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if err := linkPayment(tx, params, payment.ID); err != nil {
			return err
		}

		managerCredited, err := l.settleManager(tx, businessID, params.Amount, targetLabel)
		if err != nil {
			return err
		}

		var updated models.Wallet
		if err := tx.First(&updated, wallet.ID).Error; err != nil {
			return err
		}
		result = &PayResult{
			Balance:         updated.Balance,
			PaymentID:       payment.ID,
			TransactionID:   line.ID,
			Reference:       reference,
			ManagerCredited: managerCredited,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func targetID(params PayParams) uint {
	if params.Purpose == models.PaymentPurposeBooking {
		return params.BookingID
	}
	return params.OrderID
}

// confirmTarget validates ownership and state of the booking/order and
// marks it confirmed. Returns the owning business and a human label for
// ledger descriptions. The confirmed-state guard lives in the UPDATE's
// WHERE clause, like debitWallet: two concurrent payments for the same
// target both read pending, but only the writer whose guarded update
// lands confirms it; the loser sees zero rows and rejects.
func confirmTarget(tx *gorm.DB, actor Actor, params PayParams) (uint, string, error) {
	if params.Purpose == models.PaymentPurposeBooking {
		var booking models.Booking
		if err := tx.First(&booking, params.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", fmt.Errorf("%w: booking %d", ErrNotFound, params.BookingID)
			}
			return 0, "", err
		}
		if booking.UserID != actor.ID {
			return 0, "", ErrNotAuthorized
		}
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status <> ?", booking.ID, models.BookingStatusConfirmed).
			Updates(map[string]interface{}{
				"status":      models.BookingStatusConfirmed,
				"paid_amount": gorm.Expr("paid_amount + ?", params.Amount),
			})
		if res.Error != nil {
			return 0, "", res.Error
		}
		if res.RowsAffected == 0 {
			return 0, "", fmt.Errorf("%w: booking %d is already confirmed", ErrInvalidState, booking.ID)
		}
		return booking.BusinessID, fmt.Sprintf("booking #%d", booking.ID), nil
	}

	var order models.Order
	if err := tx.First(&order, params.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", fmt.Errorf("%w: order %d", ErrNotFound, params.OrderID)
		}
		return 0, "", err
	}
	if order.UserID != actor.ID {
		return 0, "", ErrNotAuthorized
	}
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status <> ?", order.ID, models.BookingStatusConfirmed).
		Update("status", models.BookingStatusConfirmed)
	if res.Error != nil {
		return 0, "", res.Error
	}
	if res.RowsAffected == 0 {
		return 0, "", fmt.Errorf("%w: order %d is already confirmed", ErrInvalidState, order.ID)
	}
	return order.BusinessID, fmt.Sprintf("order #%d", order.ID), nil
}

func linkPayment(tx *gorm.DB, params PayParams, paymentID uint) error {
	if params.Purpose == models.PaymentPurposeBooking {
		return tx.Model(&models.Booking{}).Where("id = ?", params.BookingID).
			Update("payment_id", paymentID).Error
	}
	return tx.Model(&models.Order{}).Where("id = ?", params.OrderID).
		Update("payment_id", paymentID).Error
}

// settleManager credits the business's manager with the payment amount.
// Returns false when the business has no resolvable manager; the
// payment itself still stands in that case.
func (l *Ledger) settleManager(tx *gorm.DB, businessID uint, amount int64, targetLabel string) (bool, error) {
	managerID, err := managerForBusiness(tx, businessID)
	if err != nil {
		return false, err
	}
	if managerID == nil {
		return false, nil
	}

	managerWallet, err := getOrCreateWallet(tx, Actor{ID: *managerID, Role: models.RoleManager})
	if err != nil {
		return false, err
	}
	if err := creditWallet(tx, managerWallet.ID, amount); err != nil {
		return false, err
	}
	_, err = appendTransaction(tx, managerWallet.ID, amount,
		models.TransactionTypeCredit, models.TransactionStatusSuccess,
		fmt.Sprintf("Revenue from %s", targetLabel), nil)
	if err != nil {
		return false, err
	}
	return true, nil
}
