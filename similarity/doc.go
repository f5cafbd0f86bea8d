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

// Package similarity implements the statistical similarity measures used
// to relate fragments: TF-IDF vectors with cosine similarity, concept
// overlap with graph-walk and category weighting, and a multi-dimensional
// Jaccard measure over concepts, topics, tags, and text words.
//
// Every measure is symmetric and returns a score in [0,1].
package similarity
