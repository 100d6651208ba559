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

	"github.com/bankacore/banka/internal/apierror"
	"github.com/bankacore/banka/model"
)

// CreateUser inserts a new user record. The password must already be hashed
// by the caller.
func (d Datasource) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	user.CreatedAt = time.Now()

	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO banka.users (first_name, last_name, email, phone_number, password, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id
	`, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.Password, user.CreatedAt).Scan(&user.UserID)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return model.User{}, apierror.NewAPIError(apierror.ErrConflict, "Email or phone number already exists", err)
		}
		return model.User{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create user", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by primary key.
func (d Datasource) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT user_id, first_name, last_name, email, phone_number, password, created_at
		FROM banka.users
		WHERE user_id = $1
	`, id)
	return scanUser(row, fmt.Sprintf("User with ID '%d' not found", id))
}

// GetUserByEmail retrieves a user by email address.
func (d Datasource) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT user_id, first_name, last_name, email, phone_number, password, created_at
		FROM banka.users
		WHERE email = $1
	`, email)
	return scanUser(row, fmt.Sprintf("User with email '%s' not found", email))
}

// GetUserByPhoneNumber retrieves a user by phone number.
func (d Datasource) GetUserByPhoneNumber(ctx context.Context, phoneNumber string) (*model.User, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT user_id, first_name, last_name, email, phone_number, password, created_at
		FROM banka.users
		WHERE phone_number = $1
	`, phoneNumber)
	return scanUser(row, fmt.Sprintf("User with phone number '%s' not found", phoneNumber))
}

// UpdateUser updates a user's profile fields. The password field is written
// as-is, so callers changing it must pass a hash.
func (d Datasource) UpdateUser(ctx context.Context, user *model.User) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE banka.users
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5, password = $6
		WHERE user_id = $1
	`, user.UserID, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.Password)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return apierror.NewAPIError(apierror.ErrConflict, "Email or phone number already exists", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("User with ID '%d' not found", user.UserID), nil)
	}
	return nil
}

// DeleteUser removes a user. Fails with a dependency error while the user
// still owns accounts.
func (d Datasource) DeleteUser(ctx context.Context, id int64) error {
	result, err := d.Conn.ExecContext(ctx, `
		DELETE FROM banka.users WHERE user_id = $1
	`, id)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return apierror.NewAPIError(apierror.ErrConflict, "User still owns accounts and cannot be deleted", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("User with ID '%d' not found", id), nil)
	}
	return nil
}

func scanUser(row *sql.Row, notFoundMsg string) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.UserID, &user.FirstName, &user.LastName, &user.Email, &user.PhoneNumber, &user.Password, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, notFoundMsg, err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve user", err)
	}
	return user, nil
}
