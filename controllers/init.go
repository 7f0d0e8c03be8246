package controllers

import (
	"github.com/bookbite/bookbite/gateway"
	"github.com/bookbite/bookbite/ledger"
)

var (
	ledgerSvc      *ledger.Ledger
	paystackClient *gateway.Client
)

// Init wires the controllers to the ledger engine and the payment
// gateway client. Called once at startup after the database is up.
func Init(l *ledger.Ledger, pc *gateway.Client) {
	ledgerSvc = l
	paystackClient = pc
}
