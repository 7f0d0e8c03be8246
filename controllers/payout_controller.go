package controllers

import (
	"github.com/bookbite/bookbite/utils"
	"github.com/gin-gonic/gin"
)

// RequestPayout lets a manager withdraw platform-held funds. The wallet
// is debited immediately and the withdrawal waits for admin review;
// rejection refunds it.
func RequestPayout(c *gin.Context) {
	utils.LogInfo("RequestPayout called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Amount int64 `json:"amount" binding:"required,min=100"` // kobo
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payout request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. Amount is required in kobo and must be at least 100", err.Error())
		return
	}
	utils.LogDebug("Payout request - Manager ID: %d, Amount: %d kobo", user.ID, req.Amount)

	result, err := ledgerSvc.RequestPayout(actorFor(user), req.Amount)
	if err != nil {
		utils.LogError("Payout request failed for manager ID: %d: %v", user.ID, err)
		respondLedgerError(c, err)
		return
	}
	utils.LogInfo("Payout requested by manager ID: %d, transaction ID: %d", user.ID, result.TransactionID)

	utils.Success(c, "Payout request submitted for review", gin.H{
		"transaction_id": result.TransactionID,
		"amount":         utils.FormatAmount(result.Amount),
		"wallet_balance": utils.FormatAmount(result.Balance),
		"status":         "pending",
	})
}
