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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tallinn-delivery/order-api-tests/pkg/smoke"
	"github.com/tallinn-delivery/order-api-tests/test/api"
)

// options are the command line overrides of the environment configuration.
type options struct {
	baseURL string
	seed    uint64
	timeout time.Duration
	debug   bool
}

func (o *options) addFlags(f *pflag.FlagSet) {
	f.StringVar(&o.baseURL, "base-url", "", "Delivery API base URL, overrides API_BASE_URL.")
	f.Uint64Var(&o.seed, "seed", 0, "Random order seed, overrides ORDER_SEED.")
	f.DurationVar(&o.timeout, "timeout", time.Minute, "Overall time allowed for the smoke run.")
	f.BoolVar(&o.debug, "debug", false, "Enable debug logging and request tracing.")
}

func (o *options) apply(f *pflag.FlagSet, config *api.TestConfig) {
	if f.Changed("base-url") {
		config.BaseURL = o.baseURL
	}

	if f.Changed("seed") {
		config.OrderSeed = o.seed
	}

	if o.debug {
		config.DebugLogging = true
		config.LogRequests = true
		config.LogResponses = true
	}
}

func main() {
	var o options

	o.addFlags(pflag.CommandLine)

	pflag.Parse()

	config, err := api.LoadTestConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	o.apply(pflag.CommandLine, config)

	zapConfig := zap.NewProductionConfig()
	if config.DebugLogging {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer func() {
		_ = zapLogger.Sync()
	}()

	logger := zapr.NewLogger(zapLogger).WithName("smoke")
	logger.Info("smoke run starting", "baseURL", config.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	client := api.NewAPIClientWithConfig(config, api.WithLogger(logger))
	session := api.NewSession(client, api.ValidCredentials(config), api.NewOrderFactory(config.OrderSeed))

	report, err := smoke.Run(ctx, logger, client, session)
	if err != nil {
		logger.Error(err, "smoke run failed")
		os.Exit(1) //nolint:gocritic // deferred cleanup is best effort
	}

	logger.Info("smoke run passed", "orderID", report.OrderID, "testOrderID", report.TestOrderID, "duration", report.Duration)
}
