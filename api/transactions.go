/*
Copyright 2025 Banka Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bankacore/banka/api/middleware"
	model2 "github.com/bankacore/banka/api/model"
)

// RecordDeposit handles a deposit into an owned account.
//
// Responses:
// - 400 Bad Request: If the payload fails validation or the amount is not positive.
// - 404 Not Found: If the account does not exist or does not belong to the caller.
// - 201 Created: If the deposit is applied, returning the ledger entry.
func (a Api) RecordDeposit(c *gin.Context) {
	account, ok := a.ownAccount(c)
	if !ok {
		return
	}

	var deposit model2.RecordDeposit
	if err := c.ShouldBindJSON(&deposit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := deposit.ValidateRecordDeposit(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	entry, err := a.banka.Deposit(c.Request.Context(), account.AccountNumber, deposit.Amount, deposit.Description)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RecordWithdrawal handles a withdrawal from an owned account.
//
// Responses:
// - 400 Bad Request: If the payload fails validation or funds are insufficient.
// - 404 Not Found: If the account does not exist or does not belong to the caller.
// - 201 Created: If the withdrawal is applied, returning the ledger entry.
func (a Api) RecordWithdrawal(c *gin.Context) {
	account, ok := a.ownAccount(c)
	if !ok {
		return
	}

	var withdrawal model2.RecordWithdrawal
	if err := c.ShouldBindJSON(&withdrawal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := withdrawal.ValidateRecordWithdrawal(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	entry, err := a.banka.Withdraw(c.Request.Context(), account.AccountNumber, withdrawal.Amount, withdrawal.Description)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RecordTransfer handles a transfer from an owned account to any other
// account. Only the source side is owner-checked; the destination just has
// to exist.
//
// Responses:
// - 400 Bad Request: If the payload fails validation, the transfer is to self, or funds are insufficient.
// - 404 Not Found: If either account does not exist.
// - 201 Created: If the transfer is applied, returning the debit-leg ledger entry.
func (a Api) RecordTransfer(c *gin.Context) {
	account, ok := a.ownAccount(c)
	if !ok {
		return
	}

	var transfer model2.RecordTransfer
	if err := c.ShouldBindJSON(&transfer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := transfer.ValidateRecordTransfer(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	entry, err := a.banka.Transfer(c.Request.Context(), account.AccountNumber, transfer.ToAccountNumber, transfer.Amount, transfer.Description)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetTransactions lists an owned account's ledger entries, newest first.
func (a Api) GetTransactions(c *gin.Context) {
	account, ok := a.ownAccount(c)
	if !ok {
		return
	}

	transactions, err := a.banka.GetTransactionsForAccount(c.Request.Context(), account.AccountNumber)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// GetTransaction retrieves a single ledger entry. The caller must own the
// account the entry belongs to.
func (a Api) GetTransaction(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	entry, err := a.banka.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	if _, err := a.banka.GetAccountForUser(c.Request.Context(), entry.AccountNumber, userID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
