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
	"fmt"
	"strings"

	"github.com/poiesic/marginalia/core"
)

const linkerSystemPrompt = `You connect related notes in a personal knowledge base.

You will be given a SOURCE note and a numbered list of CANDIDATE notes.
Select the candidates that are meaningfully related to the source:
shared ideas, the same subject, complementary arguments, or the same
people, tools, or events. Superficial word overlap alone is not a
relation.

Respond with ONLY a JSON array of candidate ids ordered from most to
least related, for example: [12, 7, 31]
Return [] if no candidate is meaningfully related. Do not explain.`

// snippetLimit bounds how much of each fragment's text goes into the
// prompt, keeping requests within small local-model context windows.
const snippetLimit = 400

func snippet(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	runes := []rune(text)
	if len(runes) > snippetLimit {
		return string(runes[:snippetLimit]) + "…"
	}
	return text
}

func describeFragment(fragment *core.Fragment) string {
	var sb strings.Builder
	sb.WriteString(snippet(fragment.Text))
	if len(fragment.Concepts) > 0 {
		names := make([]string, 0, len(fragment.Concepts))
		for _, concept := range fragment.Concepts {
			names = append(names, concept.Name)
		}
		fmt.Fprintf(&sb, " [concepts: %s]", strings.Join(names, ", "))
	}
	if len(fragment.Topics) > 0 {
		fmt.Fprintf(&sb, " [topics: %s]", strings.Join(fragment.Topics, ", "))
	}
	return sb.String()
}

// buildLinkerPrompt renders the source fragment and candidates into the
// user prompt for the linking call.
func buildLinkerPrompt(source *core.Fragment, candidates []*core.Fragment, maxLinks int) string {
	var sb strings.Builder

	sb.WriteString("SOURCE:\n")
	sb.WriteString(describeFragment(source))
	sb.WriteString("\n\nCANDIDATES:\n")
	for _, candidate := range candidates {
		fmt.Fprintf(&sb, "%d: %s\n", candidate.Id, describeFragment(candidate))
	}
	fmt.Fprintf(&sb, "\nSelect at most %d related candidate ids.", maxLinks)

	return sb.String()
}
