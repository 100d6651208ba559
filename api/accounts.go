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
	"github.com/bankacore/banka/model"
)

// ownAccount loads the account at :number and verifies it belongs to the
// authenticated user. Every account route goes through this check before
// touching the service layer.
func (a Api) ownAccount(c *gin.Context) (*model.Account, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	number := c.Param("number")
	account, err := a.banka.GetAccountForUser(c.Request.Context(), number, userID)
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	return account, true
}

func (a Api) CreateAccount(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var newAccount model2.CreateAccount
	if err := c.ShouldBindJSON(&newAccount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := newAccount.ValidateCreateAccount(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	account, err := a.banka.CreateAccount(c.Request.Context(), userID, newAccount.AccountType)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (a Api) GetAccounts(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	accounts, err := a.banka.GetAccountsForUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (a Api) GetAccount(c *gin.Context) {
	account, ok := a.ownAccount(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, account)
}

func (a Api) UpdateAccount(c *gin.Context) {
	account, ok := a.ownAccount(c)
	if !ok {
		return
	}

	var update model2.UpdateAccount
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := update.ValidateUpdateAccount(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	updated, err := a.banka.UpdateAccount(c.Request.Context(), account.AccountNumber, update.AccountType, update.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (a Api) CloseAccount(c *gin.Context) {
	account, ok := a.ownAccount(c)
	if !ok {
		return
	}

	closed, err := a.banka.CloseAccount(c.Request.Context(), account.AccountNumber)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, closed)
}

func (a Api) DeleteAccount(c *gin.Context) {
	account, ok := a.ownAccount(c)
	if !ok {
		return
	}

	if err := a.banka.DeleteAccount(c.Request.Context(), account.AccountNumber); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

func (a Api) GetBalance(c *gin.Context) {
	account, ok := a.ownAccount(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account_number": account.AccountNumber,
		"balance":        account.Balance,
	})
}
