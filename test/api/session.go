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
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SessionState tracks how far a session has got with authentication.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateAuthenticating
	StateReady
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateAuthenticating:
		return "Authenticating"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	}

	return fmt.Sprintf("SessionState(%d)", int(s))
}

// Session is the once-initialized authentication handle for a test run.
// Create one per run and pass it to every test that needs an authenticated
// client.
type Session struct {
	api         *APIClient
	credentials Credentials
	orders      *OrderFactory

	// group collapses concurrent first logins into one request.
	group singleflight.Group

	// lock guards everything below.
	lock       sync.Mutex
	state      SessionState
	generation uint64
	client     *AuthenticatedClient
	err        error
}

// NewSession creates a session that will log in with credentials on first use.
func NewSession(api *APIClient, credentials Credentials, orders *OrderFactory) *Session {
	return &Session{
		api:         api,
		credentials: credentials,
		orders:      orders,
	}
}

// State returns the current authentication state.
func (s *Session) State() SessionState {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.state
}

// Client returns the session's authenticated client, logging in if this is
// the first call. All callers, concurrent or not, observe the same client or
// the same error. A failed login is not retried until Reset is called.
func (s *Session) Client(ctx context.Context) (*AuthenticatedClient, error) {
	s.lock.Lock()

	switch s.state {
	case StateReady:
		client := s.client
		s.lock.Unlock()

		return client, nil
	case StateFailed:
		err := s.err
		s.lock.Unlock()

		return nil, fmt.Errorf("%w: %w", ErrSessionFailed, err)
	}

	generation := s.generation
	s.lock.Unlock()

	// The login outlives any single caller, a waiter giving up must not
	// fail the login for everyone else.
	loginCtx := context.WithoutCancel(ctx)

	result := s.group.DoChan(strconv.FormatUint(generation, 10), func() (any, error) {
		return s.initialize(loginCtx, generation)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-result:
		if r.Err != nil {
			return nil, r.Err
		}

		client, _ := r.Val.(*AuthenticatedClient)

		return client, nil
	}
}

// Reset forgets any token or cached failure so the next call to Client logs
// in again. A login in flight when Reset is called is discarded.
func (s *Session) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.generation++
	s.state = StateUninitialized
	s.client = nil
	s.err = nil
}

// initialize runs at most once per generation at a time. It rechecks state
// because a caller may have read it just before a previous login settled.
func (s *Session) initialize(ctx context.Context, generation uint64) (*AuthenticatedClient, error) {
	s.lock.Lock()

	if s.generation == generation {
		switch s.state {
		case StateReady:
			client := s.client
			s.lock.Unlock()

			return client, nil
		case StateFailed:
			err := s.err
			s.lock.Unlock()

			return nil, fmt.Errorf("%w: %w", ErrSessionFailed, err)
		}

		s.state = StateAuthenticating
	}

	s.lock.Unlock()

	token, err := s.authenticate(ctx)

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.generation != generation {
		if err != nil {
			return nil, err
		}

		return newAuthenticatedClient(s.api, token, s.orders), nil
	}

	if err != nil {
		s.state = StateFailed
		s.err = err

		return nil, err
	}

	s.state = StateReady
	s.client = newAuthenticatedClient(s.api, token, s.orders)

	return s.client, nil
}

// authenticate exchanges the session credentials for a bearer token.
func (s *Session) authenticate(ctx context.Context) (string, error) {
	logger := s.api.Logger()
	logger.Info("requesting bearer token", "username", s.credentials.Username)

	result, err := s.api.Login(ctx, s.credentials)
	if err != nil {
		return "", &AuthenticationError{
			Underlying: err,
		}
	}

	if result.StatusCode != http.StatusOK {
		return "", &AuthenticationError{
			StatusCode: result.StatusCode,
			Body:       result.Body,
		}
	}

	if result.Body == "" {
		return "", &AuthenticationError{
			StatusCode: result.StatusCode,
			Underlying: ErrEmptyToken,
		}
	}

	if claims, err := TokenClaims(result.Body); err == nil {
		logger.V(1).Info("bearer token received", "subject", claims["sub"], "expires", claims["exp"])
	} else {
		logger.V(1).Info("bearer token received, claims not decodable", "error", err.Error())
	}

	return result.Body, nil
}
