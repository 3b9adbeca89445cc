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
	"errors"
	"regexp"

	"github.com/golang-jwt/jwt/v5"
)

//nolint:gochecknoglobals
var bearerTokenPattern = regexp.MustCompile(`^eyJhb[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+$`)

// IsBearerToken reports whether token has the shape of a JWT issued by the backend.
func IsBearerToken(token string) bool {
	return bearerTokenPattern.MatchString(token)
}

// TokenClaims decodes the claims of a bearer token without verifying its
// signature, the test client never holds the signing key.
func TokenClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// CompareOrderEcho checks that the backend echoed the submitted order fields.
// Every mismatch is reported, not just the first.
func CompareOrderEcho(submitted OrderRequest, got *Order) error {
	if got == nil {
		return &ValidationMismatch{
			Field:  "order",
			Reason: "response order is missing",
		}
	}

	var errs []error

	check := func(field string, expected, actual any) {
		if expected != actual {
			errs = append(errs, &ValidationMismatch{
				Field:    field,
				Expected: expected,
				Actual:   actual,
			})
		}
	}

	check("status", submitted.Status, got.Status)
	check("customerName", submitted.CustomerName, got.CustomerName)
	check("customerPhone", submitted.CustomerPhone, got.CustomerPhone)
	check("comment", submitted.Comment, got.Comment)

	return errors.Join(errs...)
}

// CompareOrderCourier checks that the response carries the submitted courier ID.
func CompareOrderCourier(submitted OrderRequest, got *Order) error {
	if got == nil || got.CourierID == nil {
		return &ValidationMismatch{
			Field:  "courierId",
			Reason: "courier ID is missing from the response",
		}
	}

	if *got.CourierID != submitted.CourierID {
		return &ValidationMismatch{
			Field:    "courierId",
			Expected: submitted.CourierID,
			Actual:   *got.CourierID,
		}
	}

	return nil
}
