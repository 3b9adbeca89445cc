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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is the public training backend the suites were written against.
const DefaultBaseURL = "https://backend.tallinn-learning.ee"

type TestConfig struct {
	BaseURL        string        `envconfig:"API_BASE_URL" default:"https://backend.tallinn-learning.ee"`
	Username       string        `envconfig:"USER"`
	Password       string        `envconfig:"PASSWORD"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	TestTimeout    time.Duration `envconfig:"TEST_TIMEOUT" default:"5m"`
	OrderSeed      uint64        `envconfig:"ORDER_SEED" default:"0"`
	DebugLogging   bool          `envconfig:"DEBUG_LOGGING" default:"false"`
	LogRequests    bool          `envconfig:"LOG_REQUESTS" default:"false"`
	LogResponses   bool          `envconfig:"LOG_RESPONSES" default:"false"`
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Credentials are not validated here, a missing USER or PASSWORD is simply empty
// and will surface as a failed login.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{}

	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("processing test configuration: %w", err)
	}

	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	return config, nil
}

func loadEnvFile() {
	envPaths := []string{
		"test/.env",          // From the repository root
		"../.env",            // From test/api
		"../../../test/.env", // From test/api/suites
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing environment variables take precedence over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}
