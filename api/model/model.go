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
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"github.com/bankacore/banka/model"
)

func positiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("invalid amount")
	}
	if !amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

func accountNumber(value interface{}) error {
	number, ok := value.(string)
	if !ok || !model.IsValidAccountNumber(number) {
		return errors.New("account number must be 10 digits and cannot start with zero")
	}
	return nil
}

func (u *RegisterUser) ValidateRegisterUser() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.FirstName, validation.Required),
		validation.Field(&u.LastName, validation.Required),
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.PhoneNumber, validation.Required),
		validation.Field(&u.Password, validation.Required, validation.Length(6, 128)),
	)
}

func (u *LoginUser) ValidateLoginUser() error {
	if (u.Email == "") == (u.PhoneNumber == "") {
		return errors.New("exactly one of email or phone_number is required")
	}
	return validation.ValidateStruct(u,
		validation.Field(&u.Email, is.Email),
		validation.Field(&u.PhoneNumber, validation.Length(10, 10), is.Digit),
		validation.Field(&u.Password, validation.Required),
	)
}

func (u *UpdateUser) ValidateUpdateUser() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Email, is.Email),
		validation.Field(&u.Password, validation.Length(6, 128)),
	)
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.AccountType, validation.Required, validation.In(model.AccountTypeSavings, model.AccountTypeCurrent)),
	)
}

func (a *UpdateAccount) ValidateUpdateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.AccountType, validation.In(model.AccountTypeSavings, model.AccountTypeCurrent)),
		validation.Field(&a.Status, validation.In(model.AccountStatusActive, model.AccountStatusInactive)),
	)
}

func (r *RecordDeposit) ValidateRecordDeposit() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmount)),
	)
}

func (r *RecordWithdrawal) ValidateRecordWithdrawal() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmount)),
	)
}

func (r *RecordTransfer) ValidateRecordTransfer() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ToAccountNumber, validation.Required, validation.By(accountNumber)),
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmount)),
	)
}
