// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import "errors"

var (
	// ErrProviderDisabled is returned when a linker is requested but the
	// configured provider is ProviderNone.
	ErrProviderDisabled = errors.New("ai provider is disabled")

	// ErrUnknownProvider is returned for provider names that don't map
	// to a supported backend.
	ErrUnknownProvider = errors.New("unknown ai provider")

	// ErrCompleterRequired is returned when a linker is built without a
	// completion backend.
	ErrCompleterRequired = errors.New("completer is required")

	// ErrMalformedResponse is returned when the model's response cannot
	// be parsed as a JSON id array after repair attempts.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrInvalidMaxAttempts is returned when retry is configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than zero")
)
