package controllers

import (
	"errors"

	"github.com/bookbite/bookbite/ledger"
	"github.com/bookbite/bookbite/models"
	"github.com/bookbite/bookbite/utils"
	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user out of the request context.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return models.User{}, false
	}
	return user, true
}

// actorFor converts an authenticated user into the typed identity the
// ledger operates on.
func actorFor(user models.User) ledger.Actor {
	return ledger.Actor{ID: user.ID, Role: user.Role}
}

// respondLedgerError maps the ledger error taxonomy onto HTTP responses.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		utils.BadRequest(c, "Insufficient wallet balance", nil)
	case errors.Is(err, ledger.ErrPaymentNotConfirmed):
		utils.BadRequest(c, "Payment has not been confirmed by the gateway", gin.H{"retry": true})
	case errors.Is(err, ledger.ErrGatewayUnavailable):
		utils.BadGateway(c, "Payment gateway is unreachable, please retry", gin.H{"retry": true})
	case errors.Is(err, ledger.ErrNotAuthorized):
		utils.Forbidden(c, "You are not allowed to perform this operation")
	case errors.Is(err, ledger.ErrNotFound):
		utils.NotFound(c, "Record not found")
	case errors.Is(err, ledger.ErrInvalidState):
		utils.Conflict(c, "Operation not valid for the current state", err.Error())
	case errors.Is(err, ledger.ErrIntegrityViolation):
		utils.LogError("Ledger integrity violation: %v", err)
		utils.InternalServerError(c, "Ledger integrity violation", nil)
	default:
		utils.InternalServerError(c, "Operation failed", err.Error())
	}
}
