package ledger

import "errors"

// Business-rule and infrastructure failures surfaced by ledger
// operations. Controllers map these onto HTTP responses; the ledger
// itself never touches the transport layer.
var (
	// ErrInsufficientBalance: a debit precondition failed. Nothing was
	// written.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrPaymentNotConfirmed: the gateway answered, but the transaction
	// is not in a payable state. Nothing was written.
	ErrPaymentNotConfirmed = errors.New("payment not confirmed by gateway")

	// ErrGatewayUnavailable: the gateway could not be reached. Nothing
	// was written; the client may retry.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidState: an operation targeted a record that is not in the
	// state the operation requires, e.g. resolving an already-resolved
	// payout or paying for an already-confirmed booking.
	ErrInvalidState = errors.New("record is not in a resolvable state")

	// ErrNotAuthorized: the acting identity lacks the role or ownership
	// the operation requires.
	ErrNotAuthorized = errors.New("actor not authorized for this operation")

	// ErrNotFound: the payment target does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrIntegrityViolation: a wallet balance does not match its
	// transaction log. This is a bug to alarm on, never a user error.
	ErrIntegrityViolation = errors.New("wallet balance does not reconcile with transaction log")
)
