package ledger

import (
	"sync"
	"testing"

	"github.com/bookbite/bookbite/models"
	"github.com/stretchr/testify/require"
)

func TestPayBookingSettlesManager(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	consumer := createActor(t, db, models.RoleUser)
	manager := createActor(t, db, models.RoleManager)
	business := createBusiness(t, db, &manager.ID)
	booking := createBooking(t, db, consumer.ID, business.ID, 3000)

	actor := Actor{ID: consumer.ID, Role: consumer.Role}
	fundWallet(t, l, actor, 5000)

	result, err := l.Pay(actor, PayParams{
		Amount:    3000,
		Purpose:   models.PaymentPurposeBooking,
		BookingID: booking.ID,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2000, result.Balance)
	require.True(t, result.ManagerCredited)
	require.NotZero(t, result.PaymentID)

	// Consumer debited, manager credited, both atomically.
	require.EqualValues(t, 2000, walletBalance(t, db, consumer.ID))
	require.EqualValues(t, 3000, walletBalance(t, db, manager.ID))

	// Booking confirmed, payment linked and paid amount recorded.
	require.NoError(t, db.First(&booking, booking.ID).Error)
	require.Equal(t, models.BookingStatusConfirmed, booking.Status)
	require.EqualValues(t, 3000, booking.PaidAmount)
	require.NotNil(t, booking.PaymentID)
	require.Equal(t, result.PaymentID, *booking.PaymentID)

	var payment models.Payment
	require.NoError(t, db.First(&payment, result.PaymentID).Error)
	require.Equal(t, models.PaymentPurposeBooking, payment.Purpose)
	require.Equal(t, models.PaymentStatusSuccess, payment.Status)
	require.NotNil(t, payment.BookingID)
	require.Equal(t, booking.ID, *payment.BookingID)

	requireReconciles(t, l, db, consumer.ID)
	requireReconciles(t, l, db, manager.ID)
}

func TestPayOrderSettlesManager(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	consumer := createActor(t, db, models.RoleUser)
	manager := createActor(t, db, models.RoleManager)
	business := createBusiness(t, db, &manager.ID)
	order := createOrder(t, db, consumer.ID, business.ID, 1500)

	actor := Actor{ID: consumer.ID, Role: consumer.Role}
	fundWallet(t, l, actor, 1500)

	result, err := l.Pay(actor, PayParams{
		Amount:  1500,
		Purpose: models.PaymentPurposeOrder,
		OrderID: order.ID,
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, result.Balance)
	require.True(t, result.ManagerCredited)

	require.NoError(t, db.First(&order, order.ID).Error)
	require.Equal(t, models.BookingStatusConfirmed, order.Status)
	require.NotNil(t, order.PaymentID)
	require.EqualValues(t, 1500, walletBalance(t, db, manager.ID))
}

func TestPayInsufficientBalanceLeavesNoTrace(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	consumer := createActor(t, db, models.RoleUser)
	manager := createActor(t, db, models.RoleManager)
	business := createBusiness(t, db, &manager.ID)
	booking := createBooking(t, db, consumer.ID, business.ID, 3000)

	actor := Actor{ID: consumer.ID, Role: consumer.Role}
	fundWallet(t, l, actor, 1000)

	_, err := l.Pay(actor, PayParams{
		Amount:    3000,
		Purpose:   models.PaymentPurposeBooking,
		BookingID: booking.ID,
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Everything rolled back: balance intact, booking still pending,
	// no payment row, no debit line.
	require.EqualValues(t, 1000, walletBalance(t, db, consumer.ID))
	require.NoError(t, db.First(&booking, booking.ID).Error)
	require.Equal(t, models.BookingStatusPending, booking.Status)
	require.Nil(t, booking.PaymentID)

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Where("purpose = ?", models.PaymentPurposeBooking).Count(&payments).Error)
	require.Zero(t, payments)

	var debits int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).Where("type = ?", models.TransactionTypeDebit).Count(&debits).Error)
	require.Zero(t, debits)

	requireReconciles(t, l, db, consumer.ID)
}

func TestPayRejectsForeignBooking(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	consumer := createActor(t, db, models.RoleUser)
	other := createActor(t, db, models.RoleUser)
	manager := createActor(t, db, models.RoleManager)
	business := createBusiness(t, db, &manager.ID)
	booking := createBooking(t, db, other.ID, business.ID, 3000)

	actor := Actor{ID: consumer.ID, Role: consumer.Role}
	fundWallet(t, l, actor, 5000)

	_, err := l.Pay(actor, PayParams{
		Amount:    3000,
		Purpose:   models.PaymentPurposeBooking,
		BookingID: booking.ID,
	})
	require.ErrorIs(t, err, ErrNotAuthorized)
	require.EqualValues(t, 5000, walletBalance(t, db, consumer.ID))
}

func TestPayRejectsAlreadyConfirmed(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	consumer := createActor(t, db, models.RoleUser)
	manager := createActor(t, db, models.RoleManager)
	business := createBusiness(t, db, &manager.ID)
	booking := createBooking(t, db, consumer.ID, business.ID, 3000)

	actor := Actor{ID: consumer.ID, Role: consumer.Role}
	fundWallet(t, l, actor, 10000)

	params := PayParams{Amount: 3000, Purpose: models.PaymentPurposeBooking, BookingID: booking.ID}
	_, err := l.Pay(actor, params)
	require.NoError(t, err)

	// Second attempt against the same booking must not double-charge.
	_, err = l.Pay(actor, params)
	require.ErrorIs(t, err, ErrInvalidState)
	require.EqualValues(t, 7000, walletBalance(t, db, consumer.ID))
	require.EqualValues(t, 3000, walletBalance(t, db, manager.ID))
}

func TestPayConcurrentSameBookingChargesOnce(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	consumer := createActor(t, db, models.RoleUser)
	manager := createActor(t, db, models.RoleManager)
	business := createBusiness(t, db, &manager.ID)
	booking := createBooking(t, db, consumer.ID, business.ID, 3000)

	actor := Actor{ID: consumer.ID, Role: consumer.Role}
	fundWallet(t, l, actor, 12000)

	// Several payments race for one booking; the confirmation guard in
	// the UPDATE's WHERE clause lets exactly one land.
	var wg sync.WaitGroup
	results := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Pay(actor, PayParams{
				Amount:    3000,
				Purpose:   models.PaymentPurposeBooking,
				BookingID: booking.ID,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInvalidState)
		}
	}
	require.Equal(t, 1, succeeded)

	// One debit, one settlement, one confirmation.
	require.EqualValues(t, 9000, walletBalance(t, db, consumer.ID))
	require.EqualValues(t, 3000, walletBalance(t, db, manager.ID))
	require.NoError(t, db.First(&booking, booking.ID).Error)
	require.Equal(t, models.BookingStatusConfirmed, booking.Status)
	require.EqualValues(t, 3000, booking.PaidAmount)

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Where("purpose = ?", models.PaymentPurposeBooking).Count(&payments).Error)
	require.EqualValues(t, 1, payments)

	requireReconciles(t, l, db, consumer.ID)
	requireReconciles(t, l, db, manager.ID)
}

func TestPayUnknownBooking(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	consumer := createActor(t, db, models.RoleUser)
	actor := Actor{ID: consumer.ID, Role: consumer.Role}
	fundWallet(t, l, actor, 5000)

	_, err := l.Pay(actor, PayParams{Amount: 3000, Purpose: models.PaymentPurposeBooking, BookingID: 999})
	require.ErrorIs(t, err, ErrNotFound)
	require.EqualValues(t, 5000, walletBalance(t, db, consumer.ID))
}

func TestPayBusinessWithoutManagerHoldsFloat(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	consumer := createActor(t, db, models.RoleUser)
	business := createBusiness(t, db, nil)
	order := createOrder(t, db, consumer.ID, business.ID, 2000)

	actor := Actor{ID: consumer.ID, Role: consumer.Role}
	fundWallet(t, l, actor, 2000)

	result, err := l.Pay(actor, PayParams{
		Amount:  2000,
		Purpose: models.PaymentPurposeOrder,
		OrderID: order.ID,
	})
	require.NoError(t, err)
	require.False(t, result.ManagerCredited)
	require.EqualValues(t, 0, result.Balance)

	// Order still confirmed; only the consumer wallet exists.
	require.NoError(t, db.First(&order, order.ID).Error)
	require.Equal(t, models.BookingStatusConfirmed, order.Status)

	var wallets int64
	require.NoError(t, db.Model(&models.Wallet{}).Count(&wallets).Error)
	require.EqualValues(t, 1, wallets)
}

func TestPayValidatesPurposeAndAmount(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	consumer := createActor(t, db, models.RoleUser)
	actor := Actor{ID: consumer.ID, Role: consumer.Role}

	_, err := l.Pay(actor, PayParams{Amount: 1000, Purpose: "subscription"})
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = l.Pay(actor, PayParams{Amount: 0, Purpose: models.PaymentPurposeBooking, BookingID: 1})
	require.ErrorIs(t, err, ErrInvalidState)
}
