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

package link

import "errors"

var (
	// ErrSourceNotFound is returned when the source fragment id does not
	// exist in the fragment store. It is the only error FindRelated
	// surfaces for a well-formed request.
	ErrSourceNotFound = errors.New("source fragment not found")

	// ErrStoreRequired is returned when no fragment store is provided.
	ErrStoreRequired = errors.New("fragment store is required")

	// ErrIndexRequired is returned when no corpus index is provided.
	ErrIndexRequired = errors.New("corpus index is required")
)
