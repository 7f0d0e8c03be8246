package ledger

import (
	"errors"
	"testing"

	"github.com/bookbite/bookbite/gateway"
	"github.com/bookbite/bookbite/models"
	"github.com/stretchr/testify/require"
)

func TestVerifyTopUpCreditsWallet(t *testing.T) {
	stub := successfulVerification("TOPUP-abc", 5000)
	l, db := newTestLedger(t, stub)
	user := createActor(t, db, models.RoleUser)
	actor := Actor{ID: user.ID, Role: user.Role}

	result, err := l.VerifyTopUp(actor, "TOPUP-abc")
	require.NoError(t, err)
	require.False(t, result.AlreadyProcessed)
	require.EqualValues(t, 5000, result.Amount)
	require.EqualValues(t, 5000, result.Balance)
	require.Equal(t, "TOPUP-abc", result.Reference)

	require.EqualValues(t, 5000, walletBalance(t, db, user.ID))

	var lines []models.WalletTransaction
	require.NoError(t, db.Find(&lines).Error)
	require.Len(t, lines, 1)
	require.Equal(t, models.TransactionTypeCredit, lines[0].Type)
	require.Equal(t, models.TransactionStatusSuccess, lines[0].Status)
	require.EqualValues(t, 5000, lines[0].Amount)
	require.NotNil(t, lines[0].Reference)
	require.Equal(t, "TOPUP-abc", *lines[0].Reference)

	var payment models.Payment
	require.NoError(t, db.Where("reference = ?", "TOPUP-abc").First(&payment).Error)
	require.Equal(t, models.PaymentPurposeTopUp, payment.Purpose)
	require.Equal(t, models.PaymentStatusSuccess, payment.Status)

	requireReconciles(t, l, db, user.ID)
}

func TestVerifyTopUpIsIdempotent(t *testing.T) {
	stub := successfulVerification("TOPUP-once", 12050)
	l, db := newTestLedger(t, stub)
	user := createActor(t, db, models.RoleUser)
	actor := Actor{ID: user.ID, Role: user.Role}

	first, err := l.VerifyTopUp(actor, "TOPUP-once")
	require.NoError(t, err)
	require.False(t, first.AlreadyProcessed)

	second, err := l.VerifyTopUp(actor, "TOPUP-once")
	require.NoError(t, err)
	require.True(t, second.AlreadyProcessed)
	require.Equal(t, first.TransactionID, second.TransactionID)
	require.Equal(t, first.Amount, second.Amount)
	require.Equal(t, first.Balance, second.Balance)

	// Balance moved exactly once.
	require.EqualValues(t, 12050, walletBalance(t, db, user.ID))

	var count int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestVerifyTopUpClosesInitiation(t *testing.T) {
	stub := successfulVerification("TOPUP-init", 3000)
	l, db := newTestLedger(t, stub)
	user := createActor(t, db, models.RoleUser)

	order := models.TopupOrder{ActorID: user.ID, Amount: 3000, Reference: "TOPUP-init", Status: "pending"}
	require.NoError(t, db.Create(&order).Error)

	_, err := l.VerifyTopUp(Actor{ID: user.ID, Role: user.Role}, "TOPUP-init")
	require.NoError(t, err)

	require.NoError(t, db.First(&order, order.ID).Error)
	require.Equal(t, "completed", order.Status)
}

func TestVerifyTopUpRejectsForeignReference(t *testing.T) {
	stub := successfulVerification("TOPUP-owned", 4000)
	l, db := newTestLedger(t, stub)
	owner := createActor(t, db, models.RoleUser)
	intruder := createActor(t, db, models.RoleUser)

	order := models.TopupOrder{ActorID: owner.ID, Amount: 4000, Reference: "TOPUP-owned", Status: "pending"}
	require.NoError(t, db.Create(&order).Error)

	// Only the actor who initiated the reference may claim its credit.
	_, err := l.VerifyTopUp(Actor{ID: intruder.ID, Role: intruder.Role}, "TOPUP-owned")
	require.ErrorIs(t, err, ErrNotAuthorized)

	var lines int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).Count(&lines).Error)
	require.Zero(t, lines)

	result, err := l.VerifyTopUp(Actor{ID: owner.ID, Role: owner.Role}, "TOPUP-owned")
	require.NoError(t, err)
	require.EqualValues(t, 4000, result.Balance)
	require.EqualValues(t, 4000, walletBalance(t, db, owner.ID))
}

func TestVerifyTopUpRejectsUnconfirmedPayment(t *testing.T) {
	stub := &stubGateway{
		verifications: map[string]*gateway.Verification{
			"TOPUP-abandoned": {Status: "abandoned", Reference: "TOPUP-abandoned"},
		},
	}
	l, db := newTestLedger(t, stub)
	user := createActor(t, db, models.RoleUser)

	_, err := l.VerifyTopUp(Actor{ID: user.ID, Role: user.Role}, "TOPUP-abandoned")
	require.ErrorIs(t, err, ErrPaymentNotConfirmed)

	// Nothing written: no wallet, no lines, no payment.
	var wallets, lines, payments int64
	require.NoError(t, db.Model(&models.Wallet{}).Count(&wallets).Error)
	require.NoError(t, db.Model(&models.WalletTransaction{}).Count(&lines).Error)
	require.NoError(t, db.Model(&models.Payment{}).Count(&payments).Error)
	require.Zero(t, wallets)
	require.Zero(t, lines)
	require.Zero(t, payments)
}

func TestVerifyTopUpRejectsZeroAmount(t *testing.T) {
	stub := &stubGateway{
		verifications: map[string]*gateway.Verification{
			"TOPUP-zero": {Status: gateway.VerificationStatusSuccess, Amount: 0, Reference: "TOPUP-zero"},
		},
	}
	l, db := newTestLedger(t, stub)
	user := createActor(t, db, models.RoleUser)

	_, err := l.VerifyTopUp(Actor{ID: user.ID, Role: user.Role}, "TOPUP-zero")
	require.ErrorIs(t, err, ErrPaymentNotConfirmed)
}

func TestVerifyTopUpGatewayDown(t *testing.T) {
	stub := &stubGateway{err: errors.New("connection refused")}
	l, db := newTestLedger(t, stub)
	user := createActor(t, db, models.RoleUser)

	_, err := l.VerifyTopUp(Actor{ID: user.ID, Role: user.Role}, "TOPUP-down")
	require.ErrorIs(t, err, ErrGatewayUnavailable)

	var lines int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).Count(&lines).Error)
	require.Zero(t, lines)
}
