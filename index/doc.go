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

// Package index builds in-memory retrieval structures over the fragment
// corpus: a term vocabulary with postings and document frequencies, and a
// concept co-occurrence graph. Both live inside an immutable Snapshot that
// is rebuilt on demand and swapped atomically, so readers never see a
// half-built index.
package index
