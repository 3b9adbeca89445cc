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

const (
	invalidUsername = "incorrect-username"
	invalidPassword = "incorrect-password"
)

// Credentials is the login payload accepted by the student login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidCredentials returns the configured username and password verbatim.
func ValidCredentials(config *TestConfig) Credentials {
	return Credentials{
		Username: config.Username,
		Password: config.Password,
	}
}

// InvalidCredentials returns a pair the backend will always reject.
func InvalidCredentials() Credentials {
	return Credentials{
		Username: invalidUsername,
		Password: invalidPassword,
	}
}
