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

import "strings"

// stripCodeFences removes markdown code fences that chat models often
// wrap around JSON responses.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// repairJSON fixes common formatting mistakes in model JSON output:
// trailing commas before a closing bracket, and prose surrounding the
// actual array. Returns the best candidate substring to parse.
func repairJSON(s string) string {
	s = stripCodeFences(s)

	// Models sometimes wrap the array in explanation text; cut down to
	// the outermost brackets when present.
	if start := strings.IndexAny(s, "[{"); start >= 0 {
		open := s[start]
		var close byte = ']'
		if open == '{' {
			close = '}'
		}
		if end := strings.LastIndexByte(s, close); end > start {
			s = s[start : end+1]
		}
	}

	// Drop trailing commas: [1, 2, 3,] and {"a": 1,}
	var out strings.Builder
	out.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			out.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == ',' {
			// Look ahead past whitespace for a closing bracket
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\n' || s[j] == '\t' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == ']' || s[j] == '}') {
				continue
			}
		}

		out.WriteByte(ch)
	}

	return out.String()
}
