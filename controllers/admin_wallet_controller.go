package controllers

import (
	"errors"
	"strconv"

	"github.com/bookbite/bookbite/ledger"
	"github.com/bookbite/bookbite/utils"
	"github.com/gin-gonic/gin"
)

// ReconcileWallet recomputes a wallet's balance from its transaction
// log and compares it to the stored balance. A mismatch means the
// atomicity contract was broken somewhere and is treated as alarm-grade.
func ReconcileWallet(c *gin.Context) {
	utils.LogInfo("ReconcileWallet called")

	walletID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.LogError("Invalid wallet ID: %v", err)
		utils.BadRequest(c, "Invalid wallet ID", nil)
		return
	}

	expected, err := ledgerSvc.ReconcileWallet(uint(walletID))
	if err != nil {
		if errors.Is(err, ledger.ErrIntegrityViolation) {
			utils.LogError("ALARM: wallet %d failed reconciliation, log implies balance %d", walletID, expected)
			utils.InternalServerError(c, "Wallet balance does not reconcile with its transaction log", gin.H{
				"wallet_id":        walletID,
				"expected_balance": utils.FormatAmount(expected),
			})
			return
		}
		utils.LogError("Failed to reconcile wallet %d: %v", walletID, err)
		respondLedgerError(c, err)
		return
	}
	utils.LogInfo("Wallet %d reconciled successfully", walletID)

	utils.Success(c, "Wallet reconciles with its transaction log", gin.H{
		"wallet_id": walletID,
		"balance":   utils.FormatAmount(expected),
	})
}
