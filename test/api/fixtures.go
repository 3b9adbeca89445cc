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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// NewSuiteSession creates the API client and the single session shared by
// every spec in a suite run.
func NewSuiteSession(config *TestConfig, options ...Option) (*APIClient, *Session) {
	options = append([]Option{WithLogger(GinkgoLogr)}, options...)

	client := NewAPIClientWithConfig(config, options...)
	orders := NewOrderFactory(config.OrderSeed)

	GinkgoWriter.Printf("Generating orders with seed %d (set ORDER_SEED to reproduce)\n", orders.Seed())

	return client, NewSession(client, ValidCredentials(config), orders)
}

// MustAuthenticate returns the session's authenticated client, failing the
// spec if login does not succeed.
func MustAuthenticate(ctx context.Context, session *Session) *AuthenticatedClient {
	client, err := session.Client(ctx)
	Expect(err).NotTo(HaveOccurred(), "Failed to authenticate session")

	return client
}

// ExpectBearerToken verifies the token has the shape of a backend issued JWT.
func ExpectBearerToken(token string) {
	Expect(IsBearerToken(token)).To(BeTrue(), "Expected %q to be a bearer token", token)
}

// ExpectOrderEcho verifies every echoed field at once so a single run
// surfaces all mismatches.
func ExpectOrderEcho(submitted OrderRequest, got *Order) {
	err := CompareOrderEcho(submitted, got)
	for _, mismatch := range Mismatches(err) {
		GinkgoWriter.Printf("Echo mismatch: %v\n", mismatch)
	}

	Expect(err).NotTo(HaveOccurred())
}

// ExpectValidOrder verifies a raw order body against the order schema.
func ExpectValidOrder(body []byte) {
	err := ValidateOrder(body)
	for _, mismatch := range Mismatches(err) {
		GinkgoWriter.Printf("Schema violation: %v\n", mismatch)
	}

	Expect(err).NotTo(HaveOccurred(), "Order body failed schema validation: %s", string(body))
}

// CreateOrderAndVerify submits an order with the authenticated client and
// checks the response echoes it and is schema valid.
func CreateOrderAndVerify(ctx context.Context, client *AuthenticatedClient, order OrderRequest) *Order {
	created, body, err := client.SubmitOrder(ctx, order)
	Expect(err).NotTo(HaveOccurred())

	GinkgoWriter.Printf("Created order with ID: %d\n", created.ID)

	Expect(created.ID).To(BeNumerically(">", 0))
	Expect(created.CourierID).NotTo(BeNil(), "Expected courierId to be present in the response")
	ExpectOrderEcho(order, created)

	GinkgoWriter.Printf("Order response: %s\n", string(body))

	return created
}
