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
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountTypeSavings = "SAVINGS"
	AccountTypeCurrent = "CURRENT"

	AccountStatusActive   = "ACTIVE"
	AccountStatusInactive = "INACTIVE"
)

// Account is a single customer account. The account number is immutable after
// creation; the balance only changes through the transaction engine and never
// goes below zero.
type Account struct {
	ID            int64           `json:"-"`
	AccountNumber string          `json:"account_number"`
	UserID        int64           `json:"user_id"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsValidAccountType reports whether t is one of the supported account types.
func IsValidAccountType(t string) bool {
	return t == AccountTypeSavings || t == AccountTypeCurrent
}

// IsValidAccountStatus reports whether s is one of the supported statuses.
func IsValidAccountStatus(s string) bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}
