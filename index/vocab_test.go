package index

import (
	"testing"

	"github.com/poiesic/marginalia/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, Tokenize(""))
	})

	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		terms := Tokenize("Hello, World!")
		assert.Equal(t, []string{"hello", "world"}, terms)
	})

	t.Run("drops short tokens", func(t *testing.T) {
		terms := Tokenize("go is ok but golang stays")
		assert.NotContains(t, terms, "go")
		assert.NotContains(t, terms, "ok")
		assert.Contains(t, terms, "golang")
	})

	t.Run("drops stop words", func(t *testing.T) {
		terms := Tokenize("the quick fox and the lazy dog")
		assert.NotContains(t, terms, "the")
		assert.NotContains(t, terms, "and")
		assert.Contains(t, terms, "quick")
	})

	t.Run("drops numeric tokens", func(t *testing.T) {
		terms := Tokenize("released in 2024 with 1000 changes")
		assert.NotContains(t, terms, "2024")
		assert.NotContains(t, terms, "1000")
	})

	t.Run("stems suffixes", func(t *testing.T) {
		assert.Equal(t, []string{"learn"}, Tokenize("learning"))
		assert.Equal(t, []string{"walk"}, Tokenize("walked"))
		assert.Equal(t, []string{"quick"}, Tokenize("quickly"))
		assert.Equal(t, []string{"model"}, Tokenize("models"))
	})

	t.Run("longest suffix wins", func(t *testing.T) {
		// "ation" strips before "tion" or "s"
		assert.Equal(t, []string{"autom"}, Tokenize("automation"))
	})

	t.Run("keeps token when stem would be too short", func(t *testing.T) {
		// stripping "ing" from "king" would leave "k"
		assert.Equal(t, []string{"king"}, Tokenize("king"))
	})
}

func TestVocabulary(t *testing.T) {
	fragments := []*core.Fragment{
		{Id: 1, Text: "neural networks process data", Note: "deep learning"},
		{Id: 2, Text: "neural architecture search"},
		{Id: 3, Title: "gardening", Text: "tomato plants need water"},
	}

	vocab := NewVocabulary(fragments)

	t.Run("doc count", func(t *testing.T) {
		assert.Equal(t, 3, vocab.DocCount())
	})

	t.Run("doc frequency", func(t *testing.T) {
		assert.Equal(t, 2, vocab.DocFreq("neural"))
		assert.Equal(t, 1, vocab.DocFreq("tomato"))
		assert.Equal(t, 0, vocab.DocFreq("absent"))
	})

	t.Run("postings", func(t *testing.T) {
		ids := vocab.Postings("neural")
		assert.ElementsMatch(t, []core.ID{1, 2}, ids)
	})

	t.Run("term counts include note and title", func(t *testing.T) {
		counts := vocab.TermCounts(1)
		require.NotNil(t, counts)
		assert.Equal(t, 1, counts["learn"])

		counts = vocab.TermCounts(3)
		require.NotNil(t, counts)
		assert.Contains(t, counts, "garden")
	})

	t.Run("unknown fragment", func(t *testing.T) {
		assert.Nil(t, vocab.TermCounts(999))
	})
}
