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

// Package ai provides the optional semantic linking backend. A
// SemanticLinker asks a language model to rank which candidate
// fragments relate to a source fragment; the rest of the engine treats
// it as best-effort and falls back to local similarity when it is
// unavailable, times out, or returns a malformed response.
//
// Backends are built on OpenAI-compatible, Anthropic, and Gemini chat
// APIs. Local OpenAI-compatible servers (Ollama, LocalAI, vLLM) work
// through the OpenAI client with a placeholder token.
package ai
