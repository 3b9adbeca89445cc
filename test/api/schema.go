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
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed schemas/order.schema.json
var orderSchemaJSON []byte

//nolint:gochecknoglobals
var loadOrderSchema = sync.OnceValues(func() (*openapi3.Schema, error) {
	schema := &openapi3.Schema{}
	if err := json.Unmarshal(orderSchemaJSON, schema); err != nil {
		return nil, fmt.Errorf("unmarshaling order schema: %w", err)
	}

	return schema, nil
})

// LoadOrderSchema returns the JSON Schema every order body must satisfy.
func LoadOrderSchema() (*openapi3.Schema, error) {
	return loadOrderSchema()
}

// ValidateOrder validates a raw order body against the order schema. Every
// violation is reported as a *ValidationMismatch, joined into one error.
func ValidateOrder(body []byte) error {
	schema, err := LoadOrderSchema()
	if err != nil {
		return err
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return &ValidationMismatch{
			Field:  "/",
			Reason: fmt.Sprintf("body is not valid JSON: %v", err),
		}
	}

	if err := schema.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return errors.Join(schemaMismatches(err)...)
	}

	return nil
}

// schemaMismatches flattens kin-openapi errors into per-field mismatches.
func schemaMismatches(err error) []error {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var result []error

		for _, inner := range multi {
			result = append(result, schemaMismatches(inner)...)
		}

		return result
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return []error{
			&ValidationMismatch{
				Field:  "/" + strings.Join(schemaErr.JSONPointer(), "/"),
				Reason: schemaErr.Reason,
			},
		}
	}

	return []error{
		&ValidationMismatch{
			Field:  "/",
			Reason: err.Error(),
		},
	}
}
