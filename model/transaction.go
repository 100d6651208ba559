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

package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit    = "DEPOSIT"
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypeTransfer   = "TRANSFER"
)

// Transaction is one immutable ledger entry for one account. Amount carries
// the signed delta applied to the account's balance: positive for deposits
// and transfer credit legs, negative for withdrawals and transfer debit legs.
// BalanceAfter is the account balance immediately after the entry was applied.
type Transaction struct {
	ID                   int64           `json:"-"`
	TransactionID        string          `json:"id"`
	AccountNumber        string          `json:"account_number"`
	RelatedAccountNumber string          `json:"related_account_number,omitempty"`
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	BalanceAfter         decimal.Decimal `json:"balance_after"`
	Description          string          `json:"description"`
	CreatedAt            time.Time       `json:"timestamp"`
}

func (transaction *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}

// IsDebit reports whether the entry decreased the account's balance.
func (transaction *Transaction) IsDebit() bool {
	return transaction.Amount.IsNegative()
}
