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
	"net/http"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tallinn-delivery/order-api-tests/test/api"
)

var _ = Describe("Authentication", func() {
	Context("When logging in to the student endpoint", func() {
		Describe("Given correct credentials", func() {
			It("should return 200 and a bearer token", func() {
				result, err := client.Login(ctx, api.ValidCredentials(config))
				Expect(err).NotTo(HaveOccurred())

				GinkgoWriter.Printf("Login response code: %d\n", result.StatusCode)
				Expect(result.StatusCode).To(Equal(http.StatusOK))
				api.ExpectBearerToken(result.Body)
			})
		})

		Describe("Given incorrect credentials", func() {
			It("should return 401 with an empty body", func() {
				result, err := client.Login(ctx, api.InvalidCredentials())
				Expect(err).NotTo(HaveOccurred())

				Expect(result.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(result.Body).To(BeEmpty())
			})

			It("should fail session initialization", func() {
				failing := api.NewSession(client, api.InvalidCredentials(), api.NewOrderFactory(config.OrderSeed))

				_, err := failing.Client(ctx)
				Expect(err).To(HaveOccurred())
				Expect(failing.State()).To(Equal(api.StateFailed))
			})
		})
	})

	Context("When sharing the suite session", func() {
		It("should hand every concurrent caller the same client", func() {
			const callers = 8

			clients := make([]*api.AuthenticatedClient, callers)

			var wg sync.WaitGroup

			for i := range callers {
				wg.Add(1)

				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					clients[i] = api.MustAuthenticate(ctx, session)
				}()
			}

			wg.Wait()

			for _, c := range clients {
				Expect(c).To(BeIdenticalTo(clients[0]))
			}

			api.ExpectBearerToken(clients[0].Token())
		})
	})
})
