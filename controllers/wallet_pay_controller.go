package controllers

import (
	"github.com/bookbite/bookbite/ledger"
	"github.com/bookbite/bookbite/models"
	"github.com/bookbite/bookbite/utils"
	"github.com/gin-gonic/gin"
)

// PayWithWallet settles a booking or order from the consumer's wallet
// balance. Debit, payment record, target confirmation and manager
// settlement all commit together or not at all.
func PayWithWallet(c *gin.Context) {
	utils.LogInfo("PayWithWallet called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Amount    int64  `json:"amount" binding:"required,min=1"` // kobo
		Purpose   string `json:"purpose" binding:"required"`
		BookingID uint   `json:"booking_id"`
		OrderID   uint   `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. Amount and purpose are required", err.Error())
		return
	}

	switch req.Purpose {
	case models.PaymentPurposeBooking:
		if req.BookingID == 0 {
			utils.BadRequest(c, "booking_id is required for booking payments", nil)
			return
		}
	case models.PaymentPurposeOrder:
		if req.OrderID == 0 {
			utils.BadRequest(c, "order_id is required for order payments", nil)
			return
		}
	default:
		utils.BadRequest(c, "Purpose must be booking or order", nil)
		return
	}
	utils.LogDebug("Wallet payment - User ID: %d, Purpose: %s, Amount: %d kobo", user.ID, req.Purpose, req.Amount)

	result, err := ledgerSvc.Pay(actorFor(user), ledger.PayParams{
		Amount:    req.Amount,
		Purpose:   req.Purpose,
		BookingID: req.BookingID,
		OrderID:   req.OrderID,
	})
	if err != nil {
		utils.LogError("Wallet payment failed for user ID: %d: %v", user.ID, err)
		respondLedgerError(c, err)
		return
	}

	if !result.ManagerCredited {
		utils.LogInfo("Wallet payment settled without manager credit (platform float) - Payment ID: %d", result.PaymentID)
	}
	utils.LogInfo("Wallet payment completed for user ID: %d, payment ID: %d", user.ID, result.PaymentID)

	utils.Success(c, "Payment completed successfully", gin.H{
		"payment_id":     result.PaymentID,
		"transaction_id": result.TransactionID,
		"reference":      result.Reference,
		"amount":         utils.FormatAmount(req.Amount),
		"wallet_balance": utils.FormatAmount(result.Balance),
		"purpose":        req.Purpose,
	})
}
