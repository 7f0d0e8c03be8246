package ledger

import (
	"errors"
	"strings"

	"github.com/bookbite/bookbite/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// getOrCreateWallet returns the actor's wallet, creating it on first
// access. Creation relies on the unique index on actor_id with
// insert-or-fetch-on-conflict semantics, so two concurrent first
// accesses cannot produce two wallets.
func getOrCreateWallet(tx *gorm.DB, actor Actor) (*models.Wallet, error) {
	wallet := models.Wallet{
		ActorID:  actor.ID,
		Role:     actor.Role,
		Currency: "NGN",
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "actor_id"}},
		DoNothing: true,
	}).Create(&wallet).Error
	if err != nil {
		return nil, err
	}

	// Re-fetch: on conflict the insert was a no-op and the struct above
	// carries no primary key.
	if err := tx.Where("actor_id = ?", actor.ID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// debitWallet decrements a wallet balance if and only if the balance
// covers the amount, as one conditional UPDATE. Read-check-write
// sequences are forbidden here: the guard and the decrement must be a
// single statement relative to any other writer.
func debitWallet(tx *gorm.DB, walletID uint, amount int64) error {
	res := tx.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// creditWallet increments a wallet balance. The wallet row must exist;
// a zero-row update means the caller is crediting a wallet it never
// loaded inside this transaction, which is a bug.
func creditWallet(tx *gorm.DB, walletID uint, amount int64) error {
	res := tx.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrIntegrityViolation
	}
	return nil
}

// appendTransaction writes one ledger line. Every balance mutation in
// this package pairs with exactly one call to this helper inside the
// same transaction.
func appendTransaction(tx *gorm.DB, walletID uint, amount int64, txType, status, description string, reference *string) (*models.WalletTransaction, error) {
	line := models.WalletTransaction{
		WalletID:    walletID,
		Amount:      amount,
		Type:        txType,
		Status:      status,
		Description: description,
		Reference:   reference,
	}
	if err := tx.Create(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// isDuplicateKey reports whether an insert failed on a unique
// constraint. The postgres driver translates these to
// gorm.ErrDuplicatedKey; sqlite (used in tests) reports them as plain
// constraint errors.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// Statement is the read-only view of a wallet: current balance plus a
// page of its newest transactions.
type Statement struct {
	WalletID     uint
	Balance      int64
	Currency     string
	Total        int64
	Transactions []models.WalletTransaction
}

// GetStatement returns the acting actor's balance and newest-first
// transactions, lazily creating the wallet on first access.
func (l *Ledger) GetStatement(actor Actor, limit, offset int) (*Statement, error) {
	var statement Statement
	err := l.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := getOrCreateWallet(tx, actor)
		if err != nil {
			return err
		}

		var total int64
		if err := tx.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID).Count(&total).Error; err != nil {
			return err
		}

		var transactions []models.WalletTransaction
		if err := tx.Where("wallet_id = ?", wallet.ID).
			Order("created_at DESC").
			Limit(limit).Offset(offset).
			Find(&transactions).Error; err != nil {
			return err
		}

		statement = Statement{
			WalletID:     wallet.ID,
			Balance:      wallet.Balance,
			Currency:     wallet.Currency,
			Total:        total,
			Transactions: transactions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

// ReconcileWallet recomputes a wallet's balance from its transaction
// log and checks it against the stored balance. Successful credits add;
// successful and pending debits subtract; failed debits are reversals
// whose balance effect was already undone. A mismatch is alarm-grade.
// Balance and log are read inside one transaction so a credit landing
// between the two reads cannot fake a mismatch.
func (l *Ledger) ReconcileWallet(walletID uint) (int64, error) {
	var expected int64
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.First(&wallet, walletID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var lines []models.WalletTransaction
		if err := tx.Where("wallet_id = ?", walletID).Find(&lines).Error; err != nil {
			return err
		}

		for _, line := range lines {
			switch {
			case line.Type == models.TransactionTypeCredit && line.Status == models.TransactionStatusSuccess:
				expected += line.Amount
			case line.Type == models.TransactionTypeDebit && line.Status != models.TransactionStatusFailed:
				expected -= line.Amount
			}
		}

		if expected != wallet.Balance {
			return ErrIntegrityViolation
		}
		return nil
	})
	if err != nil {
		return expected, err
	}
	return expected, nil
}
