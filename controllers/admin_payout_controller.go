package controllers

import (
	"strconv"

	"github.com/bookbite/bookbite/config"
	"github.com/bookbite/bookbite/models"
	"github.com/bookbite/bookbite/utils"
	"github.com/gin-gonic/gin"
)

// ListPayouts returns payout requests newest-first for the admin
// dashboard, joined with manager and business identity.
func ListPayouts(c *gin.Context) {
	utils.LogInfo("ListPayouts called")

	pagination := utils.NewPagination(c)
	items, total, err := ledgerSvc.ListPayouts(pagination.Limit, pagination.Offset)
	if err != nil {
		utils.LogError("Failed to list payouts: %v", err)
		utils.InternalServerError(c, "Failed to list payouts", err.Error())
		return
	}

	payouts := make([]gin.H, len(items))
	for i, item := range items {
		payouts[i] = gin.H{
			"transaction_id": item.TransactionID,
			"amount":         utils.FormatAmount(item.Amount),
			"status":         item.Status,
			"description":    item.Description,
			"created_at":     item.CreatedAt.Format("2006-01-02 15:04:05"),
			"manager": gin.H{
				"id":    item.ManagerID,
				"name":  item.ManagerName,
				"email": item.ManagerEmail,
			},
			"business": gin.H{
				"id":   item.BusinessID,
				"name": item.BusinessName,
			},
		}
	}

	utils.SuccessWithPagination(c, "Payout requests retrieved successfully", gin.H{
		"payouts": payouts,
	}, total, pagination.Page, pagination.Limit)
}

// ResolvePayout applies the admin decision to a pending payout:
// approve (funds stay withdrawn) or reject (funds return to the
// manager's wallet). Each payout resolves exactly once.
func ResolvePayout(c *gin.Context) {
	utils.LogInfo("ResolvePayout called")

	transactionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.LogError("Invalid payout transaction ID: %v", err)
		utils.BadRequest(c, "Invalid payout transaction ID", nil)
		return
	}

	var req struct {
		Status          string `json:"status" binding:"required"`
		RejectionReason string `json:"rejection_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid resolution request for payout %d: %v", transactionID, err)
		utils.BadRequest(c, "Invalid request. Status is required", err.Error())
		return
	}

	if req.Status != models.TransactionStatusSuccess && req.Status != models.TransactionStatusFailed {
		utils.BadRequest(c, "Status must be success or failed", nil)
		return
	}
	if req.Status == models.TransactionStatusFailed && req.RejectionReason == "" {
		utils.BadRequest(c, "rejection_reason is required when rejecting a payout", nil)
		return
	}
	utils.LogDebug("Resolving payout %d as %s", transactionID, req.Status)

	resolution, err := ledgerSvc.ResolvePayout(uint(transactionID), req.Status, req.RejectionReason)
	if err != nil {
		utils.LogError("Failed to resolve payout %d: %v", transactionID, err)
		respondLedgerError(c, err)
		return
	}
	utils.LogInfo("Payout %d resolved as %s", transactionID, resolution.Status)

	notifyManager(resolution.ManagerID, resolution.Status, resolution.Amount, req.RejectionReason)

	utils.Success(c, "Payout resolved successfully", gin.H{
		"transaction_id": resolution.TransactionID,
		"status":         resolution.Status,
		"amount":         utils.FormatAmount(resolution.Amount),
		"wallet_balance": utils.FormatAmount(resolution.Balance),
	})
}

// notifyManager emails the manager about the resolution. Best effort:
// a delivery failure is logged and never fails the resolution.
func notifyManager(managerID uint, status string, amount int64, reason string) {
	var manager models.User
	if err := config.DB.First(&manager, managerID).Error; err != nil {
		utils.LogError("Failed to load manager %d for payout notification: %v", managerID, err)
		return
	}

	var err error
	if status == models.TransactionStatusSuccess {
		err = utils.SendPayoutApprovedEmail(manager.Email, amount)
	} else {
		err = utils.SendPayoutRejectedEmail(manager.Email, amount, reason)
	}
	if err != nil {
		utils.LogError("Failed to send payout notification to %s: %v", manager.Email, err)
	}
}
