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

// Package link finds related fragments for a source fragment. Three
// strategies are tried in order: an optional semantic model, combined
// concept similarity, and TF-IDF cosine similarity over the fragment
// text. The first strategy that yields results wins; a recency boost
// is then applied and results are ranked and truncated.
//
// Results can be memoized in a Cache keyed by a hash of the request,
// which must be flushed whenever the semantic backend changes.
package link
