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

	"github.com/shopspring/decimal"

	"github.com/bankacore/banka/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	transaction // Interface for ledger and balance-mutation operations
	account     // Interface for account-related operations
	user        // Interface for user-related operations
}

// transaction defines the balance-mutation engine's storage operations. Each
// Record* method executes one atomic unit: row lock(s), balance update(s) and
// ledger append(s) commit together or not at all.
type transaction interface {
	RecordDeposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error)
	RecordWithdrawal(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error)
	RecordTransfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactionsForAccount(ctx context.Context, accountNumber string) ([]model.Transaction, error)
}

// account defines methods for handling accounts.
type account interface {
	CreateAccount(ctx context.Context, account model.Account) (model.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*model.Account, error)
	GetAccountForUser(ctx context.Context, number string, userID int64) (*model.Account, error)
	GetAccountsForUser(ctx context.Context, userID int64) ([]model.Account, error)
	AccountNumberExists(ctx context.Context, number string) (bool, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, number string) error
}

// user defines methods for handling users.
type user interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByPhoneNumber(ctx context.Context, phoneNumber string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id int64) error
}
