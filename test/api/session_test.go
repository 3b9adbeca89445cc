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
package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tallinn-delivery/order-api-tests/test/api"
	"github.com/tallinn-delivery/order-api-tests/test/api/fake"
)

const (
	fakeUsername = "student"
	fakePassword = "secret"
)

var _ = Describe("Session", func() {
	var (
		ctx     context.Context
		backend *fake.Server
		config  *api.TestConfig
		client  *api.APIClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		backend = fake.New(fake.Options{
			Username:   fakeUsername,
			Password:   fakePassword,
			LoginDelay: 50 * time.Millisecond,
		})

		server := httptest.NewServer(backend.Handler())
		DeferCleanup(server.Close)

		config = &api.TestConfig{
			BaseURL:        server.URL,
			Username:       fakeUsername,
			Password:       fakePassword,
			RequestTimeout: 5 * time.Second,
		}
		client = api.NewAPIClientWithConfig(config, api.WithLogger(GinkgoLogr))
	})

	Context("When logging in with valid credentials", func() {
		var session *api.Session

		BeforeEach(func() {
			session = api.NewSession(client, api.ValidCredentials(config), api.NewOrderFactory(42))
		})

		It("should issue a bearer token with a single login", func() {
			Expect(session.State()).To(Equal(api.StateUninitialized))

			authenticated := api.MustAuthenticate(ctx, session)

			api.ExpectBearerToken(authenticated.Token())
			Expect(session.State()).To(Equal(api.StateReady))
			Expect(backend.Logins()).To(Equal(int64(1)))

			claims, err := api.TokenClaims(authenticated.Token())
			Expect(err).NotTo(HaveOccurred())
			Expect(claims["sub"]).To(Equal(fakeUsername))
		})

		It("should reuse the client without logging in again", func() {
			first := api.MustAuthenticate(ctx, session)

			for range 5 {
				Expect(api.MustAuthenticate(ctx, session)).To(BeIdenticalTo(first))
			}

			Expect(backend.Logins()).To(Equal(int64(1)))
		})

		It("should perform exactly one login under concurrent first access", func() {
			const callers = 25

			clients := make([]*api.AuthenticatedClient, callers)
			errs := make([]error, callers)

			var wg sync.WaitGroup

			for i := range callers {
				wg.Add(1)

				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					clients[i], errs[i] = session.Client(ctx)
				}()
			}

			wg.Wait()

			for i := range callers {
				Expect(errs[i]).NotTo(HaveOccurred())
				Expect(clients[i]).To(BeIdenticalTo(clients[0]))
				Expect(clients[i].Token()).To(Equal(clients[0].Token()))
			}

			Expect(backend.Logins()).To(Equal(int64(1)))
		})

		It("should keep logging in for callers that give up waiting", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := session.Client(cancelled)
			Expect(err).To(MatchError(context.Canceled))

			Eventually(session.State).Should(Equal(api.StateReady))

			api.MustAuthenticate(ctx, session)
			Expect(backend.Logins()).To(Equal(int64(1)))
		})

		It("should create orders with a positive server assigned ID", func() {
			authenticated := api.MustAuthenticate(ctx, session)

			first, err := authenticated.CreateOrder(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(BeNumerically(">", 0))

			second, err := authenticated.CreateOrder(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).NotTo(Equal(first))
		})

		It("should echo the submitted order fields", func() {
			authenticated := api.MustAuthenticate(ctx, session)

			order := api.NewOrderPayload(api.NewOrderFactory(7)).Build()
			created := api.CreateOrderAndVerify(ctx, authenticated, order)

			Expect(api.CompareOrderCourier(order, created)).To(Succeed())
		})
	})

	Context("When logging in with invalid credentials", func() {
		var session *api.Session

		BeforeEach(func() {
			session = api.NewSession(client, api.InvalidCredentials(), api.NewOrderFactory(42))
		})

		It("should fail with a 401 and no token", func() {
			_, err := session.Client(ctx)

			var authErr *api.AuthenticationError
			Expect(errors.As(err, &authErr)).To(BeTrue())
			Expect(authErr.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(authErr.Body).To(BeEmpty())
			Expect(session.State()).To(Equal(api.StateFailed))
		})

		It("should remember the failure instead of logging in again", func() {
			_, first := session.Client(ctx)
			Expect(first).To(HaveOccurred())

			_, second := session.Client(ctx)
			Expect(second).To(MatchError(api.ErrSessionFailed))

			var authErr *api.AuthenticationError
			Expect(errors.As(second, &authErr)).To(BeTrue())
			Expect(backend.Logins()).To(Equal(int64(1)))
		})

		It("should give every concurrent caller the same failure", func() {
			const callers = 10

			errs := make([]error, callers)

			var wg sync.WaitGroup

			for i := range callers {
				wg.Add(1)

				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					_, errs[i] = session.Client(ctx)
				}()
			}

			wg.Wait()

			for _, err := range errs {
				var authErr *api.AuthenticationError
				Expect(errors.As(err, &authErr)).To(BeTrue())
				Expect(authErr.StatusCode).To(Equal(http.StatusUnauthorized))
			}

			Expect(backend.Logins()).To(Equal(int64(1)))
		})

		It("should log in again after a reset", func() {
			_, err := session.Client(ctx)
			Expect(err).To(HaveOccurred())

			session.Reset()
			Expect(session.State()).To(Equal(api.StateUninitialized))

			_, err = session.Client(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err).NotTo(MatchError(api.ErrSessionFailed))
			Expect(backend.Logins()).To(Equal(int64(2)))
		})
	})

	Context("When reading test orders", func() {
		It("should return a schema valid order with no courier", func() {
			order, body, err := client.GetTestOrders(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(order.CourierID).To(BeNil())

			api.ExpectValidOrder(body)
		})

		It("should echo a literal test order", func() {
			submitted := api.NewOrderRequest(api.OrderStatusOpen, 0, "John Doe", "+123456789", "Urgent order", 0)

			created, _, err := client.CreateTestOrder(ctx, submitted)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectOrderEcho(submitted, created)

			fetched, body, err := client.GetTestOrder(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.ID).To(Equal(created.ID))
			api.ExpectValidOrder(body)
		})

		It("should report unknown orders as request errors", func() {
			_, _, err := client.GetTestOrder(ctx, 9999)

			var requestErr *api.RequestError
			Expect(errors.As(err, &requestErr)).To(BeTrue())
			Expect(requestErr.StatusCode).To(Equal(http.StatusNotFound))
		})
	})
})
