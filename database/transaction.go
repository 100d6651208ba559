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

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankacore/banka/internal/apierror"
	"github.com/bankacore/banka/model"

	_ "github.com/lib/pq"
)

// lockAccountRow reads an account's balance inside tx while taking a row
// lock, so the subsequent balance write cannot race with another operation on
// the same account. Returns the current balance.
func lockAccountRow(ctx context.Context, tx *sql.Tx, number string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx, `
		SELECT balance FROM banka.accounts
		WHERE account_number = $1
		FOR UPDATE
	`, number).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with number '%s' not found", number), err)
		}
		return decimal.Zero, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to read account balance", err)
	}
	return balance, nil
}

// writeLedgerEntry appends one transaction row inside tx and sets the
// generated insertion order id on the entry. Ledger rows are never updated or
// deleted afterwards.
func writeLedgerEntry(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error {
	var related interface{} = txn.RelatedAccountNumber
	if txn.RelatedAccountNumber == "" {
		related = nil
	}

	err := tx.QueryRowContext(ctx, `
		INSERT INTO banka.transactions (transaction_id, account_number, related_account_number, type, amount, balance_after, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, txn.TransactionID, txn.AccountNumber, related, txn.Type, txn.Amount, txn.BalanceAfter, txn.Description, txn.CreatedAt).Scan(&txn.ID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to append ledger entry", err)
	}
	return nil
}

// writeBalance persists a new balance for an already-locked account row.
func writeBalance(ctx context.Context, tx *sql.Tx, number string, balance decimal.Decimal, at time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE banka.accounts
		SET balance = $2, updated_at = $3
		WHERE account_number = $1
	`, number, balance, at)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to update account balance", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with number '%s' not found", number), nil)
	}
	return nil
}

// RecordDeposit credits an account and appends the matching ledger entry as
// one atomic unit.
//
// Parameters:
// - ctx: The context for managing the transaction's lifecycle.
// - accountNumber: The account to credit.
// - amount: The positive amount to add to the balance.
// - description: Free-form entry description.
//
// Returns:
// - *model.Transaction: The created ledger entry, with BalanceAfter set to the post-deposit balance.
// - error: An APIError when the account does not exist or the store fails; no partial effect remains.
func (d Datasource) RecordDeposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to begin transaction", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	balance, err := lockAccountRow(ctx, tx, accountNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &model.Transaction{
		TransactionID: model.GenerateUUIDWithSuffix("txn"),
		AccountNumber: accountNumber,
		Type:          model.TransactionTypeDeposit,
		Amount:        amount,
		BalanceAfter:  balance.Add(amount),
		Description:   description,
		CreatedAt:     now,
	}

	if err := writeBalance(ctx, tx, accountNumber, entry.BalanceAfter, now); err != nil {
		return nil, err
	}
	if err := writeLedgerEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to commit transaction", err)
	}

	d.invalidateAccount(ctx, accountNumber)
	return entry, nil
}

// RecordWithdrawal debits an account and appends the matching ledger entry as
// one atomic unit. The ledger entry carries the signed delta, so its amount
// is negative.
//
// Parameters:
// - ctx: The context for managing the transaction's lifecycle.
// - accountNumber: The account to debit.
// - amount: The positive magnitude to withdraw.
// - description: Free-form entry description.
//
// Returns:
// - *model.Transaction: The created ledger entry.
// - error: An APIError: NOT_FOUND, INSUFFICIENT_FUNDS, or a store failure. No partial effect remains.
func (d Datasource) RecordWithdrawal(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to begin transaction", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	balance, err := lockAccountRow(ctx, tx, accountNumber)
	if err != nil {
		return nil, err
	}

	if balance.LessThan(amount) {
		return nil, apierror.NewAPIError(apierror.ErrInsufficientFunds, "Insufficient balance", nil)
	}

	now := time.Now()
	entry := &model.Transaction{
		TransactionID: model.GenerateUUIDWithSuffix("txn"),
		AccountNumber: accountNumber,
		Type:          model.TransactionTypeWithdrawal,
		Amount:        amount.Neg(),
		BalanceAfter:  balance.Sub(amount),
		Description:   description,
		CreatedAt:     now,
	}

	if err := writeBalance(ctx, tx, accountNumber, entry.BalanceAfter, now); err != nil {
		return nil, err
	}
	if err := writeLedgerEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to commit transaction", err)
	}

	d.invalidateAccount(ctx, accountNumber)
	return entry, nil
}

// RecordTransfer moves amount between two accounts: two balance updates and
// two mutually referencing ledger entries (debit leg first), all committed
// together or not at all.
//
// Both rows are locked in ascending account-number order regardless of
// transfer direction, so two opposite transfers on the same pair cannot
// deadlock.
//
// Parameters:
// - ctx: The context for managing the transaction's lifecycle.
// - fromAccountNumber: The source account (debited).
// - toAccountNumber: The destination account (credited).
// - amount: The positive magnitude to move.
// - description: Free-form entry description applied to both legs.
//
// Returns:
// - *model.Transaction: The debit-leg ledger entry.
// - error: An APIError: NOT_FOUND (source or destination), INSUFFICIENT_FUNDS, or a store failure.
func (d Datasource) RecordTransfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to begin transaction", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	// Global lock order: ascending account number.
	balances := make(map[string]decimal.Decimal, 2)
	first, second := fromAccountNumber, toAccountNumber
	if second < first {
		first, second = second, first
	}
	for _, number := range []string{first, second} {
		balance, err := lockAccountRow(ctx, tx, number)
		if err != nil {
			if apierror.HasCode(err, apierror.ErrNotFound) {
				if number == fromAccountNumber {
					return nil, apierror.NewAPIError(apierror.ErrNotFound, "Source account not found", err)
				}
				return nil, apierror.NewAPIError(apierror.ErrNotFound, "Destination account not found", err)
			}
			return nil, err
		}
		balances[number] = balance
	}

	fromBalance := balances[fromAccountNumber]
	toBalance := balances[toAccountNumber]

	if fromBalance.LessThan(amount) {
		return nil, apierror.NewAPIError(apierror.ErrInsufficientFunds, "Insufficient balance", nil)
	}

	debitDescription, creditDescription := description, description
	if description == "" {
		debitDescription = fmt.Sprintf("Transfer to %s", toAccountNumber)
		creditDescription = fmt.Sprintf("Transfer from %s", fromAccountNumber)
	}

	now := time.Now()
	debitLeg := &model.Transaction{
		TransactionID:        model.GenerateUUIDWithSuffix("txn"),
		AccountNumber:        fromAccountNumber,
		RelatedAccountNumber: toAccountNumber,
		Type:                 model.TransactionTypeTransfer,
		Amount:               amount.Neg(),
		BalanceAfter:         fromBalance.Sub(amount),
		Description:          debitDescription,
		CreatedAt:            now,
	}
	creditLeg := &model.Transaction{
		TransactionID:        model.GenerateUUIDWithSuffix("txn"),
		AccountNumber:        toAccountNumber,
		RelatedAccountNumber: fromAccountNumber,
		Type:                 model.TransactionTypeTransfer,
		Amount:               amount,
		BalanceAfter:         toBalance.Add(amount),
		Description:          creditDescription,
		CreatedAt:            now,
	}

	if err := writeBalance(ctx, tx, fromAccountNumber, debitLeg.BalanceAfter, now); err != nil {
		return nil, err
	}
	if err := writeBalance(ctx, tx, toAccountNumber, creditLeg.BalanceAfter, now); err != nil {
		return nil, err
	}
	if err := writeLedgerEntry(ctx, tx, debitLeg); err != nil {
		return nil, err
	}
	if err := writeLedgerEntry(ctx, tx, creditLeg); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to commit transaction", err)
	}

	d.invalidateAccount(ctx, fromAccountNumber)
	d.invalidateAccount(ctx, toAccountNumber)
	return debitLeg, nil
}

// GetTransaction retrieves a single ledger entry by its transaction ID.
func (d Datasource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, transaction_id, account_number, related_account_number, type, amount, balance_after, description, created_at
		FROM banka.transactions
		WHERE transaction_id = $1
	`, id)

	txn, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transaction", err)
	}
	return txn, nil
}

// GetTransactionsForAccount returns an account's ledger entries newest first.
// Entries sharing a timestamp are ordered by descending insertion order.
func (d Datasource) GetTransactionsForAccount(ctx context.Context, accountNumber string) ([]model.Transaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, transaction_id, account_number, related_account_number, type, amount, balance_after, description, created_at
		FROM banka.transactions
		WHERE account_number = $1
		ORDER BY created_at DESC, id DESC
	`, accountNumber)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transactions", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transaction data", err)
		}
		transactions = append(transactions, *txn)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over transactions", err)
	}

	return transactions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	txn := &model.Transaction{}
	var related sql.NullString
	err := row.Scan(&txn.ID, &txn.TransactionID, &txn.AccountNumber, &related, &txn.Type, &txn.Amount, &txn.BalanceAfter, &txn.Description, &txn.CreatedAt)
	if err != nil {
		return nil, err
	}
	if related.Valid {
		txn.RelatedAccountNumber = related.String
	}
	return txn, nil
}
