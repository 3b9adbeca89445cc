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

// Package api provides integration test utilities for the delivery Order API.
//
// # Separate Client Implementation
//
// The backend publishes no client, so this package carries its own HTTP
// client (APIClient). Having an independent client doubles as a contract
// check: any change to the login or order payloads must show up here before
// the suites will pass against it.
//
// # Authentication
//
// A Session exchanges credentials for a bearer token exactly once per test
// run. Every caller of Session.Client receives the same AuthenticatedClient,
// and concurrent first callers share a single in-flight login. A failed login
// is remembered and returned to every later caller until Session.Reset.
//
// # Test-Specific Features
//
//   - W3C trace context propagation for request correlation
//   - Request and response logging through logr
//   - Seeded random order payloads for reproducible runs
//   - JSON Schema validation of order bodies, reporting every violation
package api
