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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bankacore/banka/internal/apierror"
	"github.com/bankacore/banka/model"
)

func TestRecordDeposit_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("1000"))
	mock.ExpectExec("UPDATE banka.accounts").
		WithArgs("1234567890", decimal.NewFromInt(1500), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO banka.transactions").
		WithArgs(sqlmock.AnyArg(), "1234567890", nil, model.TransactionTypeDeposit, decimal.NewFromInt(500), decimal.NewFromInt(1500), "payday", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	entry, err := ds.RecordDeposit(context.Background(), "1234567890", decimal.NewFromInt(500), "payday")
	assert.NoError(t, err)
	assert.Equal(t, model.TransactionTypeDeposit, entry.Type)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(1500)))
	assert.Empty(t, entry.RelatedAccountNumber)
	assert.NotEmpty(t, entry.TransactionID)
	assert.WithinDuration(t, time.Now(), entry.CreatedAt, time.Second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDeposit_AccountNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectRollback()

	_, err = ds.RecordDeposit(context.Background(), "1234567890", decimal.NewFromInt(500), "")
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordWithdrawal_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("1000"))
	mock.ExpectExec("UPDATE banka.accounts").
		WithArgs("1234567890", decimal.NewFromInt(800), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO banka.transactions").
		WithArgs(sqlmock.AnyArg(), "1234567890", nil, model.TransactionTypeWithdrawal, decimal.NewFromInt(-200), decimal.NewFromInt(800), "rent", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	entry, err := ds.RecordWithdrawal(context.Background(), "1234567890", decimal.NewFromInt(200), "rent")
	assert.NoError(t, err)
	assert.Equal(t, model.TransactionTypeWithdrawal, entry.Type)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(-200)), "withdrawal entries carry the signed delta")
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(800)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordWithdrawal_InsufficientFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("100"))
	mock.ExpectRollback()

	_, err = ds.RecordWithdrawal(context.Background(), "1234567890", decimal.NewFromInt(500), "")
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrInsufficientFunds))

	// No balance write and no ledger append happened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTransfer_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	from := "5555555555"
	to := "1111111111"

	mock.ExpectBegin()
	// Rows are locked in ascending account-number order, destination first here.
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs(to).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("500"))
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs(from).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("1000"))
	mock.ExpectExec("UPDATE banka.accounts").
		WithArgs(from, decimal.NewFromInt(700), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE banka.accounts").
		WithArgs(to, decimal.NewFromInt(800), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO banka.transactions").
		WithArgs(sqlmock.AnyArg(), from, to, model.TransactionTypeTransfer, decimal.NewFromInt(-300), decimal.NewFromInt(700), "split bill", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery("INSERT INTO banka.transactions").
		WithArgs(sqlmock.AnyArg(), to, from, model.TransactionTypeTransfer, decimal.NewFromInt(300), decimal.NewFromInt(800), "split bill", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	debitLeg, err := ds.RecordTransfer(context.Background(), from, to, decimal.NewFromInt(300), "split bill")
	assert.NoError(t, err)
	assert.Equal(t, from, debitLeg.AccountNumber)
	assert.Equal(t, to, debitLeg.RelatedAccountNumber)
	assert.True(t, debitLeg.Amount.Equal(decimal.NewFromInt(-300)))
	assert.True(t, debitLeg.BalanceAfter.Equal(decimal.NewFromInt(700)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTransfer_SourceAccountNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	// Source sorts first, so it is the first row locked.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("1111111111").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectRollback()

	_, err = ds.RecordTransfer(context.Background(), "1111111111", "2222222222", decimal.NewFromInt(50), "")
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrNotFound))
	assert.Contains(t, err.Error(), "Source account not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTransfer_DestinationAccountNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	// Destination sorts first, so its missing row is seen before the source's.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("1111111111").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectRollback()

	_, err = ds.RecordTransfer(context.Background(), "2222222222", "1111111111", decimal.NewFromInt(50), "")
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrNotFound))
	assert.Contains(t, err.Error(), "Destination account not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTransfer_InsufficientFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("1111111111").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("10"))
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("2222222222").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("500"))
	mock.ExpectRollback()

	_, err = ds.RecordTransfer(context.Background(), "1111111111", "2222222222", decimal.NewFromInt(300), "")
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrInsufficientFunds))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionsForAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "transaction_id", "account_number", "related_account_number", "type", "amount", "balance_after", "description", "created_at"}).
		AddRow(3, "txn_c", "1234567890", "9876543210", model.TransactionTypeTransfer, "-300", "1000", "Transfer to 9876543210", now).
		AddRow(2, "txn_b", "1234567890", nil, model.TransactionTypeWithdrawal, "-200", "1300", "", now.Add(-time.Minute)).
		AddRow(1, "txn_a", "1234567890", nil, model.TransactionTypeDeposit, "500", "1500", "", now.Add(-2*time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM banka.transactions").
		WithArgs("1234567890").
		WillReturnRows(rows)

	transactions, err := ds.GetTransactionsForAccount(context.Background(), "1234567890")
	assert.NoError(t, err)
	assert.Len(t, transactions, 3)
	assert.Equal(t, "txn_c", transactions[0].TransactionID)
	assert.Equal(t, "9876543210", transactions[0].RelatedAccountNumber)
	assert.Empty(t, transactions[1].RelatedAccountNumber)
	assert.True(t, transactions[2].BalanceAfter.Equal(decimal.NewFromInt(1500)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransaction_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT (.+) FROM banka.transactions").
		WithArgs("txn_missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = ds.GetTransaction(context.Background(), "txn_missing")
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrNotFound))
}
