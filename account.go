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

package banka

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankacore/banka/config"
	"github.com/bankacore/banka/internal/apierror"
	"github.com/bankacore/banka/model"
)

// generateAccountNumber produces a candidate account number and checks it
// against the live store, retrying on collision up to the configured number
// of attempts. Account numbers are random, never derived from the owner.
func (b *Banka) generateAccountNumber(ctx context.Context) (string, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < configuration.AccountNumberGeneration.MaxAttempts; attempt++ {
		candidate := model.NewAccountNumber()
		exists, err := b.datasource.AccountNumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", apierror.NewAPIError(apierror.ErrGenerationExhausted, "Could not generate a unique account number", nil)
}

// CreateAccount opens a new account for a user. The account starts ACTIVE
// with a zero balance; money only enters through deposits and transfers.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - userID int64: The owner of the new account.
// - accountType string: SAVINGS or CURRENT.
//
// Returns:
// - model.Account: The created account, including its generated number.
// - error: An APIError when the type is invalid, number generation is exhausted, or the store rejects the insert.
func (b *Banka) CreateAccount(ctx context.Context, userID int64, accountType string) (model.Account, error) {
	if !model.IsValidAccountType(accountType) {
		return model.Account{}, apierror.NewAPIError(apierror.ErrBadRequest, fmt.Sprintf("Invalid account type '%s'", accountType), nil)
	}

	number, err := b.generateAccountNumber(ctx)
	if err != nil {
		return model.Account{}, err
	}

	account := model.Account{
		AccountNumber: number,
		UserID:        userID,
		AccountType:   accountType,
		Balance:       decimal.Zero,
		Status:        model.AccountStatusActive,
	}
	return b.datasource.CreateAccount(ctx, account)
}

// GetAccount retrieves an account by its number.
func (b *Banka) GetAccount(ctx context.Context, number string) (*model.Account, error) {
	return b.datasource.GetAccountByNumber(ctx, number)
}

// GetAccountForUser retrieves an account only when it belongs to the given
// owner.
func (b *Banka) GetAccountForUser(ctx context.Context, number string, userID int64) (*model.Account, error) {
	return b.datasource.GetAccountForUser(ctx, number, userID)
}

// GetAccountsForUser lists a user's accounts, newest first.
func (b *Banka) GetAccountsForUser(ctx context.Context, userID int64) ([]model.Account, error) {
	return b.datasource.GetAccountsForUser(ctx, userID)
}

// UpdateAccount changes an account's type and/or status. Empty fields keep
// their current value. Balances cannot be changed here.
func (b *Banka) UpdateAccount(ctx context.Context, number string, accountType, status string) (*model.Account, error) {
	account, err := b.datasource.GetAccountByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if accountType != "" {
		if !model.IsValidAccountType(accountType) {
			return nil, apierror.NewAPIError(apierror.ErrBadRequest, fmt.Sprintf("Invalid account type '%s'", accountType), nil)
		}
		account.AccountType = accountType
	}
	if status != "" {
		if !model.IsValidAccountStatus(status) {
			return nil, apierror.NewAPIError(apierror.ErrBadRequest, fmt.Sprintf("Invalid account status '%s'", status), nil)
		}
		account.Status = status
	}

	if err := b.datasource.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// CloseAccount marks an account INACTIVE. The row and its ledger history are
// kept; closing is a status change, not a deletion.
func (b *Banka) CloseAccount(ctx context.Context, number string) (*model.Account, error) {
	return b.UpdateAccount(ctx, number, "", model.AccountStatusInactive)
}

// DeleteAccount removes an account record. Accounts with ledger history are
// protected by the store and cannot be deleted.
func (b *Banka) DeleteAccount(ctx context.Context, number string) error {
	return b.datasource.DeleteAccount(ctx, number)
}
