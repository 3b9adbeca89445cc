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
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// OrderStatus is the lifecycle state of a delivery order.
type OrderStatus string

const (
	OrderStatusOpen       OrderStatus = "OPEN"
	OrderStatusAccepted   OrderStatus = "ACCEPTED"
	OrderStatusInProgress OrderStatus = "INPROGRESS"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// commentWords is the number of words in a generated order comment.
const commentWords = 4

// OrderRequest is the order payload sent to the backend. The server assigns
// the ID, so a zero ID is left out of the body.
type OrderRequest struct {
	Status        OrderStatus `json:"status"`
	CourierID     int64       `json:"courierId"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	Comment       string      `json:"comment"`
	ID            int64       `json:"id,omitempty"`
}

// Order is an order as returned by the backend. CourierID is nil until a
// courier has been assigned.
type Order struct {
	ID            int64       `json:"id"`
	Status        OrderStatus `json:"status"`
	CourierID     *int64      `json:"courierId"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	Comment       string      `json:"comment"`
}

// NewOrderRequest builds an order from literal values.
func NewOrderRequest(status OrderStatus, courierID int64, customerName, customerPhone, comment string, id int64) OrderRequest {
	return OrderRequest{
		Status:        status,
		CourierID:     courierID,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Comment:       comment,
		ID:            id,
	}
}

// OrderFactory builds randomized order payloads. It is safe for concurrent use.
type OrderFactory struct {
	lock  sync.Mutex
	faker *gofakeit.Faker
	seed  uint64
}

// NewOrderFactory returns a factory whose output is fully determined by seed.
// A zero seed is replaced with one derived from the current time.
func NewOrderFactory(seed uint64) *OrderFactory {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // not security sensitive
	}

	factory := NewOrderFactoryWithFaker(gofakeit.New(seed))
	factory.seed = seed

	return factory
}

// NewOrderFactoryWithFaker wraps an existing random source.
func NewOrderFactoryWithFaker(faker *gofakeit.Faker) *OrderFactory {
	return &OrderFactory{
		faker: faker,
	}
}

// Seed returns the seed the factory was created with, zero when it wraps
// a caller supplied faker.
func (f *OrderFactory) Seed() uint64 {
	return f.seed
}

// Random returns an open, unassigned order with a random customer.
func (f *OrderFactory) Random() OrderRequest {
	f.lock.Lock()
	defer f.lock.Unlock()

	words := make([]string, commentWords)
	for i := range words {
		words[i] = f.faker.Word()
	}

	return OrderRequest{
		Status:        OrderStatusOpen,
		CustomerName:  f.faker.Name(),
		CustomerPhone: f.faker.Phone(),
		Comment:       strings.Join(words, " "),
	}
}
