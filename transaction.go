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

	"github.com/shopspring/decimal"

	"github.com/bankacore/banka/internal/apierror"
	"github.com/bankacore/banka/model"
)

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apierror.NewAPIError(apierror.ErrInvalidAmount, "Amount must be greater than zero", nil)
	}
	return nil
}

// Deposit credits an account. The balance update and the ledger entry are
// committed as one atomic unit.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - accountNumber string: The account to credit.
// - amount decimal.Decimal: The amount to deposit. Must be positive.
// - description string: Optional free-form description.
//
// Returns:
// - *model.Transaction: The created ledger entry.
// - error: An APIError: INVALID_AMOUNT, NOT_FOUND, or a store failure.
func (b *Banka) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return b.datasource.RecordDeposit(ctx, accountNumber, amount, description)
}

// Withdraw debits an account, rejecting any amount that would take the
// balance below zero.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - accountNumber string: The account to debit.
// - amount decimal.Decimal: The amount to withdraw. Must be positive.
// - description string: Optional free-form description.
//
// Returns:
// - *model.Transaction: The created ledger entry, carrying the negative delta.
// - error: An APIError: INVALID_AMOUNT, NOT_FOUND, INSUFFICIENT_FUNDS, or a store failure.
func (b *Banka) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return b.datasource.RecordWithdrawal(ctx, accountNumber, amount, description)
}

// Transfer moves money between two accounts: one atomic unit containing both
// balance updates and two mutually referencing ledger entries.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - fromAccountNumber string: The source account.
// - toAccountNumber string: The destination account.
// - amount decimal.Decimal: The amount to move. Must be positive.
// - description string: Optional description applied to both legs.
//
// Returns:
// - *model.Transaction: The debit-leg ledger entry.
// - error: An APIError: INVALID_AMOUNT, SELF_TRANSFER, NOT_FOUND, INSUFFICIENT_FUNDS, or a store failure.
func (b *Banka) Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if fromAccountNumber == toAccountNumber {
		return nil, apierror.NewAPIError(apierror.ErrSelfTransfer, "Cannot transfer to the same account", nil)
	}
	return b.datasource.RecordTransfer(ctx, fromAccountNumber, toAccountNumber, amount, description)
}

// GetBalance returns an account's current balance.
func (b *Banka) GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	account, err := b.datasource.GetAccountByNumber(ctx, accountNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// GetTransaction retrieves a single ledger entry by its transaction ID.
func (b *Banka) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	return b.datasource.GetTransaction(ctx, id)
}

// GetTransactionsForAccount returns an account's ledger entries newest first.
func (b *Banka) GetTransactionsForAccount(ctx context.Context, accountNumber string) ([]model.Transaction, error) {
	return b.datasource.GetTransactionsForAccount(ctx, accountNumber)
}
