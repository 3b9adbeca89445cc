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
	"fmt"
)

var (
	// ErrSessionFailed is wrapped around a cached login failure so callers
	// can tell a remembered failure from a fresh one.
	ErrSessionFailed = errors.New("session authentication previously failed")

	// ErrEmptyToken is returned when login succeeds without issuing a token.
	ErrEmptyToken = errors.New("login returned an empty token")
)

// AuthenticationError is raised when the login endpoint does not return 200.
// It is fatal for the session that triggered it.
type AuthenticationError struct {
	StatusCode int
	Body       string
	Underlying error
}

func (e *AuthenticationError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("authentication failed with status %d: %v", e.StatusCode, e.Underlying)
	}

	return fmt.Sprintf("authentication failed with status %d, body: %q", e.StatusCode, e.Body)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Underlying
}

// RequestError is raised when an API request returns an unexpected status.
type RequestError struct {
	Operation      string
	ExpectedStatus int
	StatusCode     int
	Body           string
	TraceID        string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: expected %d, got %d, body: %s (trace ID: %s)", e.Operation, e.ExpectedStatus, e.StatusCode, e.Body, e.TraceID)
}

// ValidationMismatch describes one field of a response body that did not
// match what was expected. Either Reason or Expected/Actual is populated.
type ValidationMismatch struct {
	Field    string
	Expected any
	Actual   any
	Reason   string
}

func (e *ValidationMismatch) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
	}

	return fmt.Sprintf("field %s: expected %v, got %v", e.Field, e.Expected, e.Actual)
}

// Mismatches unpacks every ValidationMismatch from an error produced by
// CompareOrderEcho or ValidateOrder.
func Mismatches(err error) []*ValidationMismatch {
	switch e := err.(type) {
	case nil:
		return nil
	case *ValidationMismatch:
		return []*ValidationMismatch{e}
	case interface{ Unwrap() []error }:
		var result []*ValidationMismatch

		for _, inner := range e.Unwrap() {
			result = append(result, Mismatches(inner)...)
		}

		return result
	}

	var mismatch *ValidationMismatch
	if errors.As(err, &mismatch) {
		return []*ValidationMismatch{mismatch}
	}

	return nil
}
