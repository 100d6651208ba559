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
	"log"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bankacore/banka/config"
	"github.com/bankacore/banka/database"
	"github.com/bankacore/banka/internal/apierror"
	"github.com/bankacore/banka/internal/cache"
	"github.com/bankacore/banka/model"
)

func newTestDataSource() (database.IDataSource, sqlmock.Sqlmock, error) {
	config.MockConfig(&config.Configuration{})
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Printf("an error '%s' was not expected when opening a stub database Connection", err)
	}
	newCache, err := cache.NewCache()
	if err != nil {
		log.Printf("an error '%s' was not expected", err)
	}
	return &database.Datasource{Conn: db, Cache: newCache}, mock, nil
}

func TestDeposit(t *testing.T) {
	datasource, mock, err := newTestDataSource()
	assert.NoError(t, err)

	b := NewBanka(datasource)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("0"))
	mock.ExpectExec("UPDATE banka.accounts").
		WithArgs("1234567890", decimal.NewFromInt(1000), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO banka.transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	entry, err := b.Deposit(context.Background(), "1234567890", decimal.NewFromInt(1000), "opening deposit")
	assert.NoError(t, err)
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(1000)))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	datasource, _, err := newTestDataSource()
	assert.NoError(t, err)

	b := NewBanka(datasource)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		_, err := b.Deposit(context.Background(), "1234567890", amount, "")
		assert.Error(t, err)
		assert.True(t, apierror.HasCode(err, apierror.ErrInvalidAmount))
	}
}

func TestWithdrawRejectsNonPositiveAmount(t *testing.T) {
	datasource, _, err := newTestDataSource()
	assert.NoError(t, err)

	b := NewBanka(datasource)

	_, err = b.Withdraw(context.Background(), "1234567890", decimal.Zero, "")
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrInvalidAmount))
}

func TestTransferRejectsSelfTransfer(t *testing.T) {
	datasource, _, err := newTestDataSource()
	assert.NoError(t, err)

	b := NewBanka(datasource)

	_, err = b.Transfer(context.Background(), "1234567890", "1234567890", decimal.NewFromInt(100), "")
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrSelfTransfer))
}

func TestTransferAppliesDefaultDescriptions(t *testing.T) {
	datasource, mock, err := newTestDataSource()
	assert.NoError(t, err)

	b := NewBanka(datasource)

	from := "1111111111"
	to := "2222222222"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs(from).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("1000"))
	mock.ExpectQuery("SELECT balance FROM banka.accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs(to).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("0"))
	mock.ExpectExec("UPDATE banka.accounts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE banka.accounts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO banka.transactions").
		WithArgs(sqlmock.AnyArg(), from, to, model.TransactionTypeTransfer, sqlmock.AnyArg(), sqlmock.AnyArg(), "Transfer to 2222222222", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO banka.transactions").
		WithArgs(sqlmock.AnyArg(), to, from, model.TransactionTypeTransfer, sqlmock.AnyArg(), sqlmock.AnyArg(), "Transfer from 1111111111", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	entry, err := b.Transfer(context.Background(), from, to, decimal.NewFromInt(250), "")
	assert.NoError(t, err)
	assert.Equal(t, "Transfer to 2222222222", entry.Description)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestGetBalance(t *testing.T) {
	datasource, mock, err := newTestDataSource()
	assert.NoError(t, err)

	b := NewBanka(datasource)

	mock.ExpectQuery("SELECT (.+) FROM banka.accounts").
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_number", "user_id", "account_type", "balance", "status", "created_at", "updated_at"}).
			AddRow(1, "1234567890", 42, model.AccountTypeSavings, "750.50", model.AccountStatusActive, time.Now(), time.Now()))

	balance, err := b.GetBalance(context.Background(), "1234567890")
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("750.50")))
}
