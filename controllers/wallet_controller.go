package controllers

import (
	"github.com/bookbite/bookbite/utils"
	"github.com/gin-gonic/gin"
)

// GetWallet returns the calling actor's balance and newest-first
// transactions.
func GetWallet(c *gin.Context) {
	utils.LogInfo("GetWallet called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)
	statement, err := ledgerSvc.GetStatement(actorFor(user), pagination.Limit, pagination.Offset)
	if err != nil {
		utils.LogError("Failed to load wallet statement for user ID: %d: %v", user.ID, err)
		respondLedgerError(c, err)
		return
	}

	transactions := make([]gin.H, len(statement.Transactions))
	for i, txn := range statement.Transactions {
		entry := gin.H{
			"id":          txn.ID,
			"amount":      utils.FormatAmount(txn.Amount),
			"type":        txn.Type,
			"status":      txn.Status,
			"description": txn.Description,
			"created_at":  txn.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if txn.Reference != nil {
			entry["reference"] = *txn.Reference
		}
		transactions[i] = entry
	}

	utils.SuccessWithPagination(c, "Wallet retrieved successfully", gin.H{
		"wallet": gin.H{
			"id":       statement.WalletID,
			"balance":  utils.FormatAmount(statement.Balance),
			"currency": statement.Currency,
		},
		"transactions": transactions,
	}, statement.Total, pagination.Page, pagination.Limit)
}
