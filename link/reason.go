package link

import (
	"fmt"
	"strings"
)

// conceptReason renders a human-readable explanation for a
// concept-based link from the shared concept names.
func conceptReason(shared []string) string {
	switch len(shared) {
	case 0:
		return "Related content"
	case 1:
		return fmt.Sprintf("Shares concept: %s", shared[0])
	case 2:
		return fmt.Sprintf("Shares concepts: %s and %s", shared[0], shared[1])
	default:
		return fmt.Sprintf("Shares %d concepts including %s and %s", len(shared), shared[0], shared[1])
	}
}

// textReason renders the explanation for a text-similarity link from
// the strongest shared terms.
func textReason(terms []string) string {
	if len(terms) == 0 {
		return "Related content"
	}
	return "Shared themes: " + strings.Join(terms, ", ")
}

// semanticReason is attached to links chosen by the semantic backend.
const semanticReason = "Semantically related content"
