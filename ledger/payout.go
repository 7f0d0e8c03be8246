package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookbite/bookbite/models"
	"gorm.io/gorm"
)

// PayoutRequestResult is the outcome of a manager withdrawal request.
// The debit is real and immediate; resolution only decides whether it
// reverses.
type PayoutRequestResult struct {
	Balance       int64
	TransactionID uint
	Amount        int64
}

// RequestPayout debits the manager's wallet now and logs the withdrawal
// as a pending debit awaiting admin review.
func (l *Ledger) RequestPayout(actor Actor, amount int64) (*PayoutRequestResult, error) {
	if actor.Role != models.RoleManager {
		return nil, ErrNotAuthorized
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidState)
	}

	var result *PayoutRequestResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := getOrCreateWallet(tx, actor)
		if err != nil {
			return err
		}
		if err := debitWallet(tx, wallet.ID, amount); err != nil {
			return err
		}

		line, err := appendTransaction(tx, wallet.ID, amount,
			models.TransactionTypeDebit, models.TransactionStatusPending,
			models.PayoutDescriptionPrefix, nil)
		if err != nil {
			return err
		}

		var updated models.Wallet
		if err := tx.First(&updated, wallet.ID).Error; err != nil {
			return err
		}
		result = &PayoutRequestResult{
			Balance:       updated.Balance,
			TransactionID: line.ID,
			Amount:        amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PayoutResolution is the outcome of an admin decision on a payout.
type PayoutResolution struct {
	TransactionID uint
	Status        string
	Amount        int64
	Balance       int64
	ManagerID     uint
}

// ResolvePayout transitions a pending payout to success or failed,
// exactly once. Approval moves no further funds: the request already
// debited the wallet. Rejection appends the reason to the original row
// and credits the amount back in the same transaction, keeping one
// ledger line per payout lifecycle.
func (l *Ledger) ResolvePayout(transactionID uint, status, reason string) (*PayoutResolution, error) {
	if status != models.TransactionStatusSuccess && status != models.TransactionStatusFailed {
		return nil, fmt.Errorf("%w: resolution status must be success or failed", ErrInvalidState)
	}

	var result *PayoutResolution
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var line models.WalletTransaction
		if err := tx.First(&line, transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payout transaction %d not found", ErrInvalidState, transactionID)
			}
			return err
		}
		if line.Type != models.TransactionTypeDebit || !strings.HasPrefix(line.Description, models.PayoutDescriptionPrefix) {
			return fmt.Errorf("%w: transaction %d is not a payout request", ErrInvalidState, transactionID)
		}

		updates := map[string]interface{}{"status": status}
		if status == models.TransactionStatusFailed {
			updates["description"] = fmt.Sprintf("%s - Rejected: %s", line.Description, reason)
		}

		// Guarded transition: only a pending row may resolve, and only
		// one resolver can win it.
		res := tx.Model(&models.WalletTransaction{}).
			Where("id = ? AND status = ?", transactionID, models.TransactionStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: payout %d was already resolved", ErrInvalidState, transactionID)
		}

		if status == models.TransactionStatusFailed {
			if err := creditWallet(tx, line.WalletID, line.Amount); err != nil {
				return err
			}
		}

		var wallet models.Wallet
		if err := tx.First(&wallet, line.WalletID).Error; err != nil {
			return err
		}
		result = &PayoutResolution{
			TransactionID: line.ID,
			Status:        status,
			Amount:        line.Amount,
			Balance:       wallet.Balance,
			ManagerID:     wallet.ActorID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PayoutListItem is the admin projection of a payout request joined
// with the requesting manager and their business.
type PayoutListItem struct {
	TransactionID uint      `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	ManagerID     uint      `json:"manager_id"`
	ManagerName   string    `json:"manager_name"`
	ManagerEmail  string    `json:"manager_email"`
	BusinessID    uint      `json:"business_id,omitempty"`
	BusinessName  string    `json:"business_name,omitempty"`
}

// ListPayouts enumerates payout requests newest-first for the admin
// dashboard. A read-only projection over the transaction log.
func (l *Ledger) ListPayouts(limit, offset int) ([]PayoutListItem, int64, error) {
	base := l.db.Model(&models.WalletTransaction{}).
		Where("type = ? AND description LIKE ?", models.TransactionTypeDebit, models.PayoutDescriptionPrefix+"%")

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lines []models.WalletTransaction
	if err := l.db.Preload("Wallet").
		Where("type = ? AND description LIKE ?", models.TransactionTypeDebit, models.PayoutDescriptionPrefix+"%").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&lines).Error; err != nil {
		return nil, 0, err
	}

	managerIDs := make([]uint, 0, len(lines))
	for _, line := range lines {
		managerIDs = append(managerIDs, line.Wallet.ActorID)
	}

	managers := make(map[uint]models.User)
	if len(managerIDs) > 0 {
		var users []models.User
		if err := l.db.Where("id IN ?", managerIDs).Find(&users).Error; err != nil {
			return nil, 0, err
		}
		for _, user := range users {
			managers[user.ID] = user
		}
	}

	// A manager may own several businesses; attribute payouts to the
	// oldest one so the projection is deterministic.
	businesses := make(map[uint]models.Business)
	if len(managerIDs) > 0 {
		var owned []models.Business
		if err := l.db.Where("manager_id IN ?", managerIDs).Order("id ASC").Find(&owned).Error; err != nil {
			return nil, 0, err
		}
		for _, business := range owned {
			if business.ManagerID == nil {
				continue
			}
			if _, taken := businesses[*business.ManagerID]; !taken {
				businesses[*business.ManagerID] = business
			}
		}
	}

	items := make([]PayoutListItem, 0, len(lines))
	for _, line := range lines {
		item := PayoutListItem{
			TransactionID: line.ID,
			Amount:        line.Amount,
			Status:        line.Status,
			Description:   line.Description,
			CreatedAt:     line.CreatedAt,
			ManagerID:     line.Wallet.ActorID,
		}
		if manager, ok := managers[line.Wallet.ActorID]; ok {
			item.ManagerName = manager.Username
			item.ManagerEmail = manager.Email
		}
		if business, ok := businesses[line.Wallet.ActorID]; ok {
			item.BusinessID = business.ID
			item.BusinessName = business.Name
		}
		items = append(items, item)
	}
	return items, total, nil
}
