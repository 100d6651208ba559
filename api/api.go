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
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/bankacore/banka"
	"github.com/bankacore/banka/api/middleware"
	"github.com/bankacore/banka/config"
	"github.com/bankacore/banka/internal/apierror"
)

type Api struct {
	banka  *banka.Banka
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/auth/register", a.Register)
	router.POST("/auth/login", a.Login)

	authorized := router.Group("/", middleware.TokenAuthMiddleware())

	authorized.GET("/users/:id", a.GetUser)
	authorized.PATCH("/users/:id", a.UpdateUser)
	authorized.DELETE("/users/:id", a.DeleteUser)

	authorized.POST("/accounts", a.CreateAccount)
	authorized.GET("/accounts", a.GetAccounts)
	authorized.GET("/accounts/:number", a.GetAccount)
	authorized.PATCH("/accounts/:number", a.UpdateAccount)
	authorized.PATCH("/accounts/:number/close", a.CloseAccount)
	authorized.DELETE("/accounts/:number", a.DeleteAccount)
	authorized.GET("/accounts/:number/balance", a.GetBalance)

	authorized.GET("/accounts/:number/transactions", a.GetTransactions)
	authorized.POST("/accounts/:number/transactions/deposit", a.RecordDeposit)
	authorized.POST("/accounts/:number/transactions/withdraw", a.RecordWithdrawal)
	authorized.POST("/accounts/:number/transactions/transfer", a.RecordTransfer)
	authorized.GET("/transactions/:id", a.GetTransaction)

	return a.router
}

func NewAPI(b *banka.Banka) (*Api, error) {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{banka: b, router: r}, nil
}

// handleError writes an error response, mapping service error codes onto
// HTTP statuses.
func handleError(c *gin.Context, err error) {
	c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
}
