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

package main

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/bankacore/banka"
	"github.com/bankacore/banka/config"
	"github.com/bankacore/banka/database"
)

// runMigrations applies the embedded SQL migrations in the given direction
// and returns the number of migrations executed.
func runMigrations(direction migrate.MigrationDirection) (int, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return 0, err
	}

	db, err := database.ConnectDB(cnf.DataSource.Dns)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	migrate.SetSchema("banka")
	return migrate.Exec(db, "postgres", migrate.EmbedFileSystemMigrationSource{
		FileSystem: banka.SQLFiles,
		Root:       "sql",
	}, direction)
}

func migrateCommands(_ *bankaInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "manage banka database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := runMigrations(migrate.Up)
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d migrations!\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "roll back the most recent migration batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := runMigrations(migrate.Down)
			if err != nil {
				return err
			}
			fmt.Printf("Rolled back %d migrations!\n", n)
			return nil
		},
	})

	return cmd
}
