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

package batch

import "errors"

var (
	// ErrStoreRequired is returned when no fragment store is provided.
	ErrStoreRequired = errors.New("fragment store is required")

	// ErrFinderRequired is returned when no link finder is provided.
	ErrFinderRequired = errors.New("link finder is required")

	// ErrInvalidBatchSize is returned for batch sizes below one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	// ErrInvalidMaxLinks is returned for link bounds below one.
	ErrInvalidMaxLinks = errors.New("max links must be at least 1")
)
