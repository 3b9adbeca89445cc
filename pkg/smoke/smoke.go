/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

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

// Package smoke runs a single pass over the delivery API: login, create an
// order, and validate a test order against the order schema.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/tallinn-delivery/order-api-tests/test/api"
)

// ErrInvalidToken is returned when login succeeds with a token that is not a JWT.
var ErrInvalidToken = errors.New("bearer token has unexpected shape")

// Report summarises a smoke run.
type Report struct {
	OrderID     int64
	TestOrderID int64
	Duration    time.Duration
}

// Run performs the smoke checks in order, stopping at the first failure.
func Run(ctx context.Context, logger logr.Logger, client *api.APIClient, session *api.Session) (*Report, error) {
	start := time.Now()

	authenticated, err := session.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	if !api.IsBearerToken(authenticated.Token()) {
		return nil, ErrInvalidToken
	}

	logger.Info("authenticated", "state", session.State())

	orderID, err := authenticated.CreateOrder(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("order created", "orderID", orderID)

	order, body, err := client.GetTestOrders(ctx)
	if err != nil {
		return nil, err
	}

	if err := api.ValidateOrder(body); err != nil {
		for _, mismatch := range api.Mismatches(err) {
			logger.Info("schema violation", "field", mismatch.Field, "reason", mismatch.Error())
		}

		return nil, fmt.Errorf("validating test order: %w", err)
	}

	logger.Info("test order valid", "orderID", order.ID)

	return &Report{
		OrderID:     orderID,
		TestOrderID: order.ID,
		Duration:    time.Since(start),
	}, nil
}
