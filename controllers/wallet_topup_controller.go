package controllers

import (
	"fmt"
	"os"

	"github.com/bookbite/bookbite/config"
	"github.com/bookbite/bookbite/models"
	"github.com/bookbite/bookbite/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InitiateWalletTopup creates a Paystack transaction for adding money
// to the wallet and records the pending top-up order. No balance is
// touched until verification.
func InitiateWalletTopup(c *gin.Context) {
	utils.LogInfo("InitiateWalletTopup called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Amount int64 `json:"amount" binding:"required,min=100"` // kobo
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid topup request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. Amount is required in kobo and must be at least 100", err.Error())
		return
	}
	utils.LogDebug("Topup request - User ID: %d, Amount: %d kobo", user.ID, req.Amount)

	reference := fmt.Sprintf("TOPUP-%s", uuid.New().String())
	initialized, err := paystackClient.InitializeTransaction(user.Email, req.Amount, reference, os.Getenv("PAYSTACK_CALLBACK_URL"))
	if err != nil {
		utils.LogError("Failed to initialize Paystack transaction for user ID: %d: %v", user.ID, err)
		respondLedgerError(c, err)
		return
	}

	topupOrder := models.TopupOrder{
		ActorID:   user.ID,
		Amount:    req.Amount,
		Reference: initialized.Reference,
		Status:    "pending",
	}
	if err := config.DB.Create(&topupOrder).Error; err != nil {
		utils.LogError("Failed to record topup order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to record topup order", err.Error())
		return
	}
	utils.LogInfo("Initiated wallet topup for user ID: %d, reference: %s", user.ID, initialized.Reference)

	utils.Success(c, "Wallet topup initialized successfully", gin.H{
		"authorization_url": initialized.AuthorizationURL,
		"access_code":       initialized.AccessCode,
		"reference":         initialized.Reference,
		"amount_display":    utils.FormatNaira(req.Amount),
		"user": gin.H{
			"name":  user.Username,
			"email": user.Email,
		},
	})
}

// VerifyWalletTopup verifies a Paystack transaction and credits the
// wallet. Safe to call repeatedly with the same reference.
func VerifyWalletTopup(c *gin.Context) {
	utils.LogInfo("VerifyWalletTopup called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid verification request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. Reference is required", err.Error())
		return
	}
	utils.LogDebug("Verifying topup - User ID: %d, Reference: %s", user.ID, req.Reference)

	result, err := ledgerSvc.VerifyTopUp(actorFor(user), req.Reference)
	if err != nil {
		utils.LogError("Topup verification failed for reference %s: %v", req.Reference, err)
		respondLedgerError(c, err)
		return
	}

	if result.AlreadyProcessed {
		utils.LogInfo("Topup reference %s already processed, returning prior result", req.Reference)
		utils.Success(c, "Topup already processed", gin.H{
			"amount_added":   utils.FormatAmount(result.Amount),
			"wallet_balance": utils.FormatAmount(result.Balance),
			"transaction_id": result.TransactionID,
			"reference":      result.Reference,
			"duplicate":      true,
		})
		return
	}

	utils.LogInfo("Completed wallet topup for user ID: %d, reference: %s", user.ID, req.Reference)
	utils.Success(c, "Money added to wallet successfully", gin.H{
		"amount_added":   utils.FormatAmount(result.Amount),
		"wallet_balance": utils.FormatAmount(result.Balance),
		"transaction_id": result.TransactionID,
		"reference":      result.Reference,
	})
}
