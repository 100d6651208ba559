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
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bankacore/banka/config"
	"github.com/bankacore/banka/internal/apierror"
	"github.com/bankacore/banka/model"
)

// Register creates a new user. The plaintext password is hashed with bcrypt
// before it reaches the store; it is never persisted or logged as given.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - user model.User: The profile fields. Password carries the plaintext at this point only.
//
// Returns:
// - model.User: The created user with its ID set. Password holds the hash.
// - error: An APIError, CONFLICT when the email or phone number is taken.
func (b *Banka) Register(ctx context.Context, user model.User) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to hash password", err)
	}
	user.Password = string(hash)
	return b.datasource.CreateUser(ctx, user)
}

// Authenticate verifies a password against the user identified by email or,
// when email is empty, by phone number, and issues a signed JWT. A missing
// user and a wrong password produce the same error, so the endpoint cannot
// be used to discover registered identifiers.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - email string: The login email. Takes precedence when set.
// - phoneNumber string: The login phone number, used when email is empty.
// - password string: The plaintext password to verify.
//
// Returns:
// - string: A signed HS256 token carrying the user_id claim.
// - *model.User: The authenticated user.
// - error: An APIError with code UNAUTHORIZED on any credential failure.
func (b *Banka) Authenticate(ctx context.Context, email, phoneNumber, password string) (string, *model.User, error) {
	var user *model.User
	var err error
	if email != "" {
		user, err = b.datasource.GetUserByEmail(ctx, email)
	} else {
		user, err = b.datasource.GetUserByPhoneNumber(ctx, phoneNumber)
	}
	if err != nil {
		if apierror.HasCode(err, apierror.ErrNotFound) {
			return "", nil, apierror.NewAPIError(apierror.ErrUnauthorized, "Invalid email or password", err)
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apierror.NewAPIError(apierror.ErrUnauthorized, "Invalid email or password", err)
	}

	configuration, err := config.Fetch()
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.UserID,
		"iat":     now.Unix(),
		"exp":     now.Add(configuration.Auth.TokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(configuration.Auth.TokenSecret))
	if err != nil {
		return "", nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to sign token", err)
	}

	return signed, user, nil
}

// GetUser retrieves a user by ID.
func (b *Banka) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return b.datasource.GetUserByID(ctx, id)
}

// UpdateUser updates a user's profile. A non-empty password is re-hashed;
// an empty one keeps the stored hash.
func (b *Banka) UpdateUser(ctx context.Context, id int64, updated model.User) (*model.User, error) {
	user, err := b.datasource.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updated.FirstName != "" {
		user.FirstName = updated.FirstName
	}
	if updated.LastName != "" {
		user.LastName = updated.LastName
	}
	if updated.Email != "" {
		user.Email = updated.Email
	}
	if updated.PhoneNumber != "" {
		user.PhoneNumber = updated.PhoneNumber
	}
	if updated.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(updated.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to hash password", err)
		}
		user.Password = string(hash)
	}

	if err := b.datasource.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Users still owning accounts cannot be deleted.
func (b *Banka) DeleteUser(ctx context.Context, id int64) error {
	return b.datasource.DeleteUser(ctx, id)
}
