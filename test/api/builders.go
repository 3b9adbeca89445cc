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

// OrderPayloadBuilder builds order payloads for testing.
type OrderPayloadBuilder struct {
	payload OrderRequest
}

// NewOrderPayload creates a builder seeded with a random open order.
func NewOrderPayload(factory *OrderFactory) *OrderPayloadBuilder {
	return &OrderPayloadBuilder{
		payload: factory.Random(),
	}
}

// WithStatus sets the order status.
func (b *OrderPayloadBuilder) WithStatus(status OrderStatus) *OrderPayloadBuilder {
	b.payload.Status = status
	return b
}

// WithCourierID sets the courier ID.
func (b *OrderPayloadBuilder) WithCourierID(courierID int64) *OrderPayloadBuilder {
	b.payload.CourierID = courierID
	return b
}

// WithCustomerName sets the customer name (pass empty string to test validation).
func (b *OrderPayloadBuilder) WithCustomerName(name string) *OrderPayloadBuilder {
	b.payload.CustomerName = name
	return b
}

// WithCustomerPhone sets the customer phone.
func (b *OrderPayloadBuilder) WithCustomerPhone(phone string) *OrderPayloadBuilder {
	b.payload.CustomerPhone = phone
	return b
}

// WithComment sets the order comment.
func (b *OrderPayloadBuilder) WithComment(comment string) *OrderPayloadBuilder {
	b.payload.Comment = comment
	return b
}

// Build returns the completed order payload.
func (b *OrderPayloadBuilder) Build() OrderRequest {
	return b.payload
}
