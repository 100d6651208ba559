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
	"fmt"
	"math/rand"
	"regexp"

	"github.com/google/uuid"
)

// AccountNumberLength is the fixed length of every account number.
const AccountNumberLength = 10

var accountNumberPattern = regexp.MustCompile(`^[1-9][0-9]{9}$`)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)
	return idWithSuffix
}

// NewAccountNumber draws a random candidate account number: ten digits, the
// first one non-zero. Uniqueness against the store is the caller's concern.
func NewAccountNumber() string {
	firstDigit := rand.Intn(9) + 1
	rest := rand.Int63n(1_000_000_000)
	return fmt.Sprintf("%d%09d", firstDigit, rest)
}

// IsValidAccountNumber reports whether s has the canonical account number
// shape: fixed-length numeric with a non-zero leading digit.
func IsValidAccountNumber(s string) bool {
	return accountNumberPattern.MatchString(s)
}
