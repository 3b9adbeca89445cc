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

// Package fake provides an in-process stand-in for the delivery backend so
// the test client can be exercised without network access.
package fake

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"k8s.io/utils/ptr"
)

// Options defines the behaviour of the fake backend.
type Options struct {
	// Username and Password are the only credentials that log in.
	Username string
	Password string

	// SigningKey signs issued tokens, a default is used when empty.
	SigningKey []byte

	// TokenTTL is how long issued tokens are valid for.
	TokenTTL time.Duration

	// LoginDelay holds every login response, widening the window in which
	// concurrent callers can pile up behind the first.
	LoginDelay time.Duration
}

type order struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	CourierID     *int64 `json:"courierId"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Comment       string `json:"comment"`
}

type orderRequest struct {
	Status        string `json:"status"`
	CourierID     int64  `json:"courierId"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Comment       string `json:"comment"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Server is a fake delivery backend.
type Server struct {
	options Options

	logins atomic.Int64

	// lock guards the order store.
	lock   sync.Mutex
	nextID int64
	orders map[int64]order
}

// New returns a fake backend holding a single unassigned test order with ID 1.
func New(options Options) *Server {
	if len(options.SigningKey) == 0 {
		options.SigningKey = []byte("fake-delivery-backend")
	}

	if options.TokenTTL == 0 {
		options.TokenTTL = time.Hour
	}

	return &Server{
		options: options,
		nextID:  2,
		orders: map[int64]order{
			1: {
				ID:            1,
				Status:        "OPEN",
				CustomerName:  "John Doe",
				CustomerPhone: "+123456789",
				Comment:       "Urgent order",
			},
		},
	}
}

// Handler returns the HTTP routes of the backend.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Post("/login/student", s.login)
	router.With(s.requireBearer).Post("/orders", s.createOrder)
	router.Get("/test-orders", s.getAnyTestOrder)
	router.Post("/test-orders", s.createOrder)
	router.Get("/test-orders/{orderID}", s.getTestOrder)

	return router
}

// Logins returns the number of login requests received.
func (s *Server) Logins() int64 {
	return s.logins.Load()
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.logins.Add(1)

	if s.options.LoginDelay > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(s.options.LoginDelay):
		}
	}

	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if c.Username != s.options.Username || c.Password != s.options.Password {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	now := time.Now()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   c.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.options.TokenTTL)),
	}).SignedString(s.options.SigningKey)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(token))
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		keyFunc := func(*jwt.Token) (any, error) {
			return s.options.SigningKey, nil
		}

		if _, err := jwt.Parse(raw, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var request orderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.lock.Lock()
	created := order{
		ID:            s.nextID,
		Status:        request.Status,
		CourierID:     ptr.To(request.CourierID),
		CustomerName:  request.CustomerName,
		CustomerPhone: request.CustomerPhone,
		Comment:       request.Comment,
	}
	s.orders[created.ID] = created
	s.nextID++
	s.lock.Unlock()

	writeJSON(w, http.StatusOK, created)
}

func (s *Server) getAnyTestOrder(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	found := s.orders[1]
	s.lock.Unlock()

	writeJSON(w, http.StatusOK, found)
}

func (s *Server) getTestOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.lock.Lock()
	found, ok := s.orders[orderID]
	s.lock.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}
