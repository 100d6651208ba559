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
	"embed"

	"github.com/bankacore/banka/database"
)

// Banka is the service layer. All balance mutations, account lifecycle
// operations and user management go through it; HTTP handlers never talk to
// the datasource directly.
type Banka struct {
	datasource database.IDataSource
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewBanka initializes a new service instance backed by the provided
// datasource.
//
// Parameters:
// - db database.IDataSource: The datasource for database operations.
//
// Returns:
// - *Banka: A pointer to the newly created Banka instance.
func NewBanka(db database.IDataSource) *Banka {
	return &Banka{datasource: db}
}
