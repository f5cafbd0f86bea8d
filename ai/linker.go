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

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/poiesic/marginalia/core"
)

// ConceptLinker implements SemanticLinker on top of a chat Completer.
// Every call is bounded by the configured timeout and retried with
// backoff; parse failures count as attempt failures so a flaky model
// gets another chance to produce valid JSON.
type ConceptLinker struct {
	completer  Completer
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

var _ SemanticLinker = (*ConceptLinker)(nil)

// NewConceptLinker creates a linker over the given completion backend.
func NewConceptLinker(completer Completer, config *Config) (*ConceptLinker, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &ConceptLinker{
		completer:  completer,
		timeout:    config.Timeout,
		maxRetries: config.MaxRetries,
		baseDelay:  config.RetryBaseDelay,
		logger:     slog.Default().With("component", "concept-linker"),
	}, nil
}

// LinkConcepts asks the model to rank related candidates. Ids the model
// invents, duplicates, and the source's own id are discarded.
func (l *ConceptLinker) LinkConcepts(ctx context.Context, source *core.Fragment, candidates []*core.Fragment, maxLinks int) ([]core.ID, error) {
	if len(candidates) == 0 || maxLinks <= 0 {
		return nil, nil
	}

	userPrompt := buildLinkerPrompt(source, candidates, maxLinks)

	var ranked []core.ID
	err := RetryWithBackoff(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()

		response, err := l.completer.Complete(callCtx, linkerSystemPrompt, userPrompt)
		if err != nil {
			return err
		}

		ids, err := parseIDArray(response)
		if err != nil {
			l.logger.Warn("error parsing linker response", "response", response, "err", err)
			return err
		}
		ranked = ids
		return nil
	}, l.maxRetries, l.baseDelay)
	if err != nil {
		return nil, err
	}

	valid := make(map[core.ID]struct{}, len(candidates))
	for _, candidate := range candidates {
		valid[candidate.Id] = struct{}{}
	}

	seen := make(map[core.ID]struct{}, len(ranked))
	result := make([]core.ID, 0, min(len(ranked), maxLinks))
	for _, id := range ranked {
		if id == source.Id {
			continue
		}
		if _, ok := valid[id]; !ok {
			l.logger.Debug("model returned unknown candidate id", "id", id)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
		if len(result) == maxLinks {
			break
		}
	}

	return result, nil
}

// parseIDArray extracts a JSON id array from the model response. The
// response may be a bare array or an object with a single array field.
func parseIDArray(response string) ([]core.ID, error) {
	text := repairJSON(response)

	var raw []uint64
	if err := json.Unmarshal([]byte(text), &raw); err == nil {
		return toIDs(raw), nil
	}

	var wrapped map[string][]uint64
	if err := json.Unmarshal([]byte(text), &wrapped); err == nil && len(wrapped) == 1 {
		for _, ids := range wrapped {
			return toIDs(ids), nil
		}
	}

	return nil, ErrMalformedResponse
}

func toIDs(raw []uint64) []core.ID {
	ids := make([]core.ID, len(raw))
	for i, id := range raw {
		ids[i] = core.ID(id)
	}
	return ids
}
