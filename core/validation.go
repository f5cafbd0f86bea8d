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


package core

import (
	"fmt"
	"time"
)

// ValidateFragment validates a Fragment according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - CreatedAt must not be in the future
//   - RelatedIds must not contain the fragment's own id
//   - All attached concepts must be valid
//
// NOT validated (populated elsewhere):
//   - ID (0 is valid from database sequences)
//   - RelatedIds contents beyond self-reference (the store owns them)
func ValidateFragment(fragment *Fragment) error {
	if fragment == nil {
		return fmt.Errorf("%w: fragment is nil", ErrInvalidFragment)
	}

	if fragment.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrEmptyText)
	}

	if !IsValidTimestamp(fragment.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrInvalidTimestamp)
	}

	for _, related := range fragment.RelatedIds {
		if related == fragment.Id && fragment.Id != 0 {
			return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrSelfLink)
		}
	}

	for i := range fragment.Concepts {
		if err := ValidateConcept(&fragment.Concepts[i]); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFragment, err)
		}
	}

	return nil
}

// ValidateConcept validates a Concept according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Confidence must be in [0,1]
func ValidateConcept(concept *Concept) error {
	if concept == nil {
		return fmt.Errorf("%w: concept is nil", ErrInvalidConcept)
	}

	if concept.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptyConceptName)
	}

	if concept.Confidence < 0 || concept.Confidence > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrInvalidConfidence)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
// The zero time is accepted; timestamps are filled in by the store.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
