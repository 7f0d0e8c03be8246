package ledger

import (
	"sync"
	"testing"

	"github.com/bookbite/bookbite/models"
	"github.com/stretchr/testify/require"
)

func TestRequestPayoutDebitsImmediately(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 3000)

	result, err := l.RequestPayout(actor, 3000)
	require.NoError(t, err)
	require.EqualValues(t, 0, result.Balance)
	require.EqualValues(t, 3000, result.Amount)

	var line models.WalletTransaction
	require.NoError(t, db.First(&line, result.TransactionID).Error)
	require.Equal(t, models.TransactionTypeDebit, line.Type)
	require.Equal(t, models.TransactionStatusPending, line.Status)
	require.Equal(t, models.PayoutDescriptionPrefix, line.Description)

	requireReconciles(t, l, db, manager.ID)
}

func TestRequestPayoutRejectsNonManager(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	user := createActor(t, db, models.RoleUser)
	actor := Actor{ID: user.ID, Role: user.Role}
	fundWallet(t, l, actor, 5000)

	_, err := l.RequestPayout(actor, 1000)
	require.ErrorIs(t, err, ErrNotAuthorized)
	require.EqualValues(t, 5000, walletBalance(t, db, user.ID))
}

func TestRequestPayoutInsufficientBalance(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 1000)

	_, err := l.RequestPayout(actor, 3000)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.EqualValues(t, 1000, walletBalance(t, db, manager.ID))

	var pending int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).
		Where("status = ?", models.TransactionStatusPending).Count(&pending).Error)
	require.Zero(t, pending)
}

func TestRejectPayoutRestoresBalance(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 3000)

	request, err := l.RequestPayout(actor, 3000)
	require.NoError(t, err)
	require.EqualValues(t, 0, request.Balance)

	resolution, err := l.ResolvePayout(request.TransactionID, models.TransactionStatusFailed, "bank details invalid")
	require.NoError(t, err)
	require.Equal(t, models.TransactionStatusFailed, resolution.Status)
	require.EqualValues(t, 3000, resolution.Balance)
	require.Equal(t, manager.ID, resolution.ManagerID)

	// One ledger line for the whole lifecycle, reason appended in place.
	var line models.WalletTransaction
	require.NoError(t, db.First(&line, request.TransactionID).Error)
	require.Equal(t, models.TransactionStatusFailed, line.Status)
	require.Contains(t, line.Description, "Rejected: bank details invalid")

	var count int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).
		Where("type = ?", models.TransactionTypeDebit).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.EqualValues(t, 3000, walletBalance(t, db, manager.ID))
	requireReconciles(t, l, db, manager.ID)
}

func TestApprovePayoutMovesNoFurtherFunds(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 3000)

	request, err := l.RequestPayout(actor, 3000)
	require.NoError(t, err)

	resolution, err := l.ResolvePayout(request.TransactionID, models.TransactionStatusSuccess, "")
	require.NoError(t, err)
	require.Equal(t, models.TransactionStatusSuccess, resolution.Status)
	require.EqualValues(t, 0, resolution.Balance)

	var line models.WalletTransaction
	require.NoError(t, db.First(&line, request.TransactionID).Error)
	require.Equal(t, models.TransactionStatusSuccess, line.Status)
	require.Equal(t, models.PayoutDescriptionPrefix, line.Description)

	requireReconciles(t, l, db, manager.ID)
}

func TestResolvePayoutExactlyOnce(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 3000)

	request, err := l.RequestPayout(actor, 3000)
	require.NoError(t, err)

	_, err = l.ResolvePayout(request.TransactionID, models.TransactionStatusFailed, "name mismatch")
	require.NoError(t, err)

	// A second resolution must not double-credit.
	_, err = l.ResolvePayout(request.TransactionID, models.TransactionStatusFailed, "name mismatch")
	require.ErrorIs(t, err, ErrInvalidState)
	_, err = l.ResolvePayout(request.TransactionID, models.TransactionStatusSuccess, "")
	require.ErrorIs(t, err, ErrInvalidState)

	require.EqualValues(t, 3000, walletBalance(t, db, manager.ID))
	requireReconciles(t, l, db, manager.ID)
}

func TestResolvePayoutValidatesTarget(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 3000)

	_, err := l.ResolvePayout(999, models.TransactionStatusSuccess, "")
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = l.ResolvePayout(1, "approved", "")
	require.ErrorIs(t, err, ErrInvalidState)

	// The funding credit line is not a payout request.
	var credit models.WalletTransaction
	require.NoError(t, db.Where("type = ?", models.TransactionTypeCredit).First(&credit).Error)
	_, err = l.ResolvePayout(credit.ID, models.TransactionStatusSuccess, "")
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestPayoutExhaustion(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 10000)

	// Five requests of 3000 against a 10000 balance: exactly three land.
	var succeeded int
	for i := 0; i < 5; i++ {
		if _, err := l.RequestPayout(actor, 3000); err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientBalance)
		}
	}
	require.Equal(t, 3, succeeded)
	require.EqualValues(t, 1000, walletBalance(t, db, manager.ID))
	requireReconciles(t, l, db, manager.ID)
}

func TestPayoutConcurrentRequestsNeverOverdraw(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 10000)

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.RequestPayout(actor, 3000)
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
			require.ErrorIs(t, err, ErrInsufficientBalance)
		}
	}
	require.Equal(t, 3, succeeded)
	require.EqualValues(t, 1000, walletBalance(t, db, manager.ID))
	requireReconciles(t, l, db, manager.ID)
}

func TestListPayoutsManagerWithSeveralBusinesses(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	first := createBusiness(t, db, &manager.ID)
	second := models.Business{Name: "Obi Grill", Category: models.BusinessCategoryRestaurant, City: "Enugu", ManagerID: &manager.ID}
	require.NoError(t, db.Create(&second).Error)

	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 5000)
	_, err := l.RequestPayout(actor, 2000)
	require.NoError(t, err)

	// Attribution is deterministic: always the oldest business.
	for i := 0; i < 3; i++ {
		items, _, err := l.ListPayouts(10, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, first.ID, items[0].BusinessID)
		require.Equal(t, first.Name, items[0].BusinessName)
	}
}

func TestListPayoutsProjection(t *testing.T) {
	l, db := newTestLedger(t, &stubGateway{})
	manager := createActor(t, db, models.RoleManager)
	business := createBusiness(t, db, &manager.ID)
	actor := Actor{ID: manager.ID, Role: manager.Role}
	fundWallet(t, l, actor, 9000)

	first, err := l.RequestPayout(actor, 2000)
	require.NoError(t, err)
	second, err := l.RequestPayout(actor, 3000)
	require.NoError(t, err)
	_, err = l.ResolvePayout(first.TransactionID, models.TransactionStatusSuccess, "")
	require.NoError(t, err)

	items, total, err := l.ListPayouts(10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	byID := make(map[uint]PayoutListItem, len(items))
	for _, item := range items {
		byID[item.TransactionID] = item
		require.Equal(t, manager.ID, item.ManagerID)
		require.Equal(t, manager.Username, item.ManagerName)
		require.Equal(t, manager.Email, item.ManagerEmail)
		require.Equal(t, business.ID, item.BusinessID)
		require.Equal(t, business.Name, item.BusinessName)
	}
	require.Equal(t, models.TransactionStatusSuccess, byID[first.TransactionID].Status)
	require.Equal(t, models.TransactionStatusPending, byID[second.TransactionID].Status)
}
