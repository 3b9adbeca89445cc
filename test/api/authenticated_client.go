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

package api

import (
	"context"
	"fmt"
)

// AuthenticatedClient issues requests that carry the session's bearer token.
// It is only ever constructed with a non-empty token.
type AuthenticatedClient struct {
	api    *APIClient
	token  string
	orders *OrderFactory
}

func newAuthenticatedClient(api *APIClient, token string, orders *OrderFactory) *AuthenticatedClient {
	return &AuthenticatedClient{
		api:    api,
		token:  token,
		orders: orders,
	}
}

// Token returns the cached bearer token.
func (c *AuthenticatedClient) Token() string {
	return c.token
}

// CreateOrder submits a randomized order and returns the server assigned ID.
func (c *AuthenticatedClient) CreateOrder(ctx context.Context) (int64, error) {
	order, _, err := c.SubmitOrder(ctx, c.orders.Random())
	if err != nil {
		return 0, err
	}

	return order.ID, nil
}

// SubmitOrder submits the given order and returns the decoded response
// together with the raw body.
func (c *AuthenticatedClient) SubmitOrder(ctx context.Context, order OrderRequest) (*Order, []byte, error) {
	c.api.Logger().V(1).Info("creating order", "customerName", order.CustomerName)

	created, body, err := c.api.submitOrder(ctx, c.token, order)
	if err != nil {
		return nil, body, fmt.Errorf("creating order: %w", err)
	}

	c.api.Logger().V(1).Info("order created", "orderID", created.ID)

	return created, body, nil
}
