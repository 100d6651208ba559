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

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/bankacore/banka/internal/apierror"
	"github.com/bankacore/banka/model"
)

const accountCacheTTL = 5 * time.Minute

func accountCacheKey(number string) string {
	return fmt.Sprintf("banka:account:%s", number)
}

// invalidateAccount drops the cached copy of an account after any mutation.
// Cache failures are logged, not surfaced; the database remains the source of
// truth.
func (d Datasource) invalidateAccount(ctx context.Context, number string) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Delete(ctx, accountCacheKey(number)); err != nil {
		logrus.Warnf("failed to invalidate cached account %s: %v", number, err)
	}
}

// CreateAccount inserts a new account record into the `banka.accounts` table.
// The account number must already be generated and collision-checked by the
// caller.
//
// Parameters:
// - ctx: The context for managing the request lifecycle.
// - account: A model.Account object containing the account information to be created.
//
// Returns:
// - model.Account: The created account with its timestamps populated.
// - error: Returns an APIError in case of failures such as duplicate numbers or an unknown owner.
func (d Datasource) CreateAccount(ctx context.Context, account model.Account) (model.Account, error) {
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt

	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO banka.accounts (account_number, user_id, account_type, balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, account.AccountNumber, account.UserID, account.AccountType, account.Balance, account.Status, account.CreatedAt, account.UpdatedAt).Scan(&account.ID)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.Account{}, apierror.NewAPIError(apierror.ErrConflict, "Account with this number already exists", err)
			case "foreign_key_violation":
				return model.Account{}, apierror.NewAPIError(apierror.ErrBadRequest, "Invalid user ID", err)
			case "check_violation":
				return model.Account{}, apierror.NewAPIError(apierror.ErrBadRequest, "Balance cannot be negative", err)
			default:
				return model.Account{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Account{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create account", err)
	}

	return account, nil
}

// GetAccountByNumber retrieves an account based on its number. Reads go
// through the cache; the transaction engine never uses this path for balance
// checks.
//
// Parameters:
// - ctx: The context for managing the request lifecycle.
// - number: The account number to search for.
//
// Returns:
// - *model.Account: The account if found.
// - error: An APIError if the account is not found or a query error occurs.
func (d Datasource) GetAccountByNumber(ctx context.Context, number string) (*model.Account, error) {
	if d.Cache != nil {
		cached := &model.Account{}
		if err := d.Cache.Get(ctx, accountCacheKey(number), cached); err == nil && cached.AccountNumber != "" {
			return cached, nil
		}
	}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, account_number, user_id, account_type, balance, status, created_at, updated_at
		FROM banka.accounts
		WHERE account_number = $1
	`, number)

	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with number '%s' not found", number), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account", err)
	}

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, accountCacheKey(number), account, accountCacheTTL); err != nil {
			logrus.Warnf("failed to cache account %s: %v", number, err)
		}
	}

	return account, nil
}

// GetAccountForUser retrieves an account only when it belongs to the given
// owner. This is the ownership check the API layer performs before invoking
// the transaction engine; it bypasses the cache deliberately.
func (d Datasource) GetAccountForUser(ctx context.Context, number string, userID int64) (*model.Account, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, account_number, user_id, account_type, balance, status, created_at, updated_at
		FROM banka.accounts
		WHERE account_number = $1 AND user_id = $2
	`, number, userID)

	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with number '%s' not found", number), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account", err)
	}
	return account, nil
}

// GetAccountsForUser lists all accounts owned by a user, newest first.
func (d Datasource) GetAccountsForUser(ctx context.Context, userID int64) ([]model.Account, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, account_number, user_id, account_type, balance, status, created_at, updated_at
		FROM banka.accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve accounts", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan account data", err)
		}
		accounts = append(accounts, *account)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over accounts", err)
	}

	return accounts, nil
}

// AccountNumberExists reports whether an account with the given number is
// present in the live store. Used by the account number generator's
// collision check.
func (d Datasource) AccountNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM banka.accounts WHERE account_number = $1)
	`, number).Scan(&exists)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to check account number", err)
	}
	return exists, nil
}

// UpdateAccount updates an account's type and status. Balances are never
// written here; they only change through the transaction engine.
func (d Datasource) UpdateAccount(ctx context.Context, account *model.Account) error {
	account.UpdatedAt = time.Now()
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE banka.accounts
		SET account_type = $2, status = $3, updated_at = $4
		WHERE account_number = $1
	`, account.AccountNumber, account.AccountType, account.Status, account.UpdatedAt)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update account", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with number '%s' not found", account.AccountNumber), nil)
	}

	d.invalidateAccount(ctx, account.AccountNumber)
	return nil
}

// DeleteAccount removes an account. Deletion fails with a dependency error
// when ledger entries still reference the account; history is never cascaded
// away.
func (d Datasource) DeleteAccount(ctx context.Context, number string) error {
	result, err := d.Conn.ExecContext(ctx, `
		DELETE FROM banka.accounts WHERE account_number = $1
	`, number)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return apierror.NewAPIError(apierror.ErrConflict, "Account has transaction history and cannot be deleted", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete account", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with number '%s' not found", number), nil)
	}

	d.invalidateAccount(ctx, number)
	return nil
}

func scanAccount(row rowScanner) (*model.Account, error) {
	account := &model.Account{}
	err := row.Scan(&account.ID, &account.AccountNumber, &account.UserID, &account.AccountType, &account.Balance, &account.Status, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return account, nil
}
