//go:build integration

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

//nolint:revive,testpackage // dot imports standard for Ginkgo
package suites

import (
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tallinn-delivery/order-api-tests/test/api"
)

var _ = Describe("Order Management", func() {
	Context("When creating orders with the authenticated client", func() {
		It("should return a positive order ID", func() {
			authenticated := api.MustAuthenticate(ctx, session)

			orderID, err := authenticated.CreateOrder(ctx)
			Expect(err).NotTo(HaveOccurred())

			GinkgoWriter.Printf("Created order with ID: %d\n", orderID)
			Expect(orderID).To(BeNumerically(">", 0))
		})

		It("should echo a randomized order", func() {
			authenticated := api.MustAuthenticate(ctx, session)

			order := api.NewOrderPayload(api.NewOrderFactory(config.OrderSeed)).Build()
			api.CreateOrderAndVerify(ctx, authenticated, order)
		})
	})

	Context("When using the unauthenticated test orders", func() {
		It("should return an order from the collection", func() {
			order, body, err := client.GetTestOrders(ctx)
			Expect(err).NotTo(HaveOccurred())

			GinkgoWriter.Printf("Test order: %s\n", string(body))
			Expect(order).NotTo(BeNil())
		})

		It("should return a schema valid order by ID", func() {
			order, body, err := client.GetTestOrder(ctx, 1)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectValidOrder(body)
			Expect(strconv.FormatInt(order.ID, 10)).To(MatchRegexp(`^\d+$`))
			Expect(order.CustomerName).NotTo(BeEmpty())
			Expect(order.CustomerPhone).NotTo(BeEmpty())
			Expect(order.Comment).NotTo(BeEmpty())
		})

		It("should echo a literal order", func() {
			submitted := api.NewOrderRequest(api.OrderStatusOpen, 0, "John Doe", "+123456789", "Urgent order", 0)

			created, _, err := client.CreateTestOrder(ctx, submitted)
			Expect(err).NotTo(HaveOccurred())

			Expect(created.Status).To(Equal(api.OrderStatusOpen))
			Expect(created.CourierID).NotTo(BeNil())
			Expect(created.CustomerName).NotTo(BeEmpty())
		})

		It("should echo every field of a randomized order", func() {
			submitted := api.NewOrderPayload(api.NewOrderFactory(config.OrderSeed)).Build()

			created, _, err := client.CreateTestOrder(ctx, submitted)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectOrderEcho(submitted, created)
			Expect(api.CompareOrderCourier(submitted, created)).To(Succeed())
		})
	})
})
