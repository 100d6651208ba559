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
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bankacore/banka"
	"github.com/bankacore/banka/config"
	"github.com/bankacore/banka/database"
)

// Banka represents the CLI application, encapsulating the root Cobra command.
type Banka struct {
	cmd *cobra.Command
}

// bankaInstance holds the service instance and its configuration, shared by
// all subcommands.
type bankaInstance struct {
	banka *banka.Banka
	cnf   *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the service instance
// before running any command.
func preRun(app *bankaInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("banka.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newBanka, err := setupBanka(cnf)
		if err != nil {
			log.Fatal(err)
		}

		app.banka = newBanka
		app.cnf = cnf

		return nil
	}
}

// setupBanka initializes the service layer from the configured datasource.
func setupBanka(cfg *config.Configuration) (*banka.Banka, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}
	return banka.NewBanka(db), nil
}

// NewCLI creates the command-line interface for the Banka application.
func NewCLI() *Banka {
	var configFile string
	b := &bankaInstance{}

	var rootCmd = &cobra.Command{
		Use:   "banka",
		Short: "Banking REST API",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./banka.json", "Configuration file")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(migrateCommands(b))

	return &Banka{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during
// execution.
func (w Banka) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func main() {
	defer recoverPanic()
	cli := NewCLI()
	cli.executeCLI()
}
