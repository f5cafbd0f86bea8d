package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/marginalia/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter returns canned responses in sequence.
type scriptedCompleter struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "[]", nil
}

func testConfig() *Config {
	return NewConfig(WithRetries(2, time.Millisecond), WithTimeout(time.Second))
}

func linkerFixtures() (*core.Fragment, []*core.Fragment) {
	source := &core.Fragment{Id: 1, Text: "source"}
	candidates := []*core.Fragment{
		{Id: 2, Text: "alpha"},
		{Id: 3, Text: "beta"},
		{Id: 4, Text: "gamma"},
	}
	return source, candidates
}

func TestConceptLinker_LinkConcepts(t *testing.T) {
	ctx := context.Background()
	source, candidates := linkerFixtures()

	t.Run("parses ranked ids", func(t *testing.T) {
		linker, err := NewConceptLinker(&scriptedCompleter{responses: []string{"[3, 2]"}}, testConfig())
		require.NoError(t, err)

		ids, err := linker.LinkConcepts(ctx, source, candidates, 5)
		require.NoError(t, err)
		assert.Equal(t, []core.ID{3, 2}, ids)
	})

	t.Run("strips code fences", func(t *testing.T) {
		linker, err := NewConceptLinker(&scriptedCompleter{responses: []string{"```json\n[4]\n```"}}, testConfig())
		require.NoError(t, err)

		ids, err := linker.LinkConcepts(ctx, source, candidates, 5)
		require.NoError(t, err)
		assert.Equal(t, []core.ID{4}, ids)
	})

	t.Run("drops invented duplicate and self ids", func(t *testing.T) {
		linker, err := NewConceptLinker(&scriptedCompleter{responses: []string{"[99, 3, 3, 1, 2]"}}, testConfig())
		require.NoError(t, err)

		ids, err := linker.LinkConcepts(ctx, source, candidates, 5)
		require.NoError(t, err)
		assert.Equal(t, []core.ID{3, 2}, ids)
	})

	t.Run("truncates to maxLinks", func(t *testing.T) {
		linker, err := NewConceptLinker(&scriptedCompleter{responses: []string{"[2, 3, 4]"}}, testConfig())
		require.NoError(t, err)

		ids, err := linker.LinkConcepts(ctx, source, candidates, 2)
		require.NoError(t, err)
		assert.Equal(t, []core.ID{2, 3}, ids)
	})

	t.Run("retries after malformed response", func(t *testing.T) {
		completer := &scriptedCompleter{responses: []string{"sorry, no idea", "[2]"}}
		linker, err := NewConceptLinker(completer, testConfig())
		require.NoError(t, err)

		ids, err := linker.LinkConcepts(ctx, source, candidates, 5)
		require.NoError(t, err)
		assert.Equal(t, []core.ID{2}, ids)
		assert.Equal(t, 2, completer.calls)
	})

	t.Run("surfaces persistent failures", func(t *testing.T) {
		boom := errors.New("connection refused")
		completer := &scriptedCompleter{errs: []error{boom, boom}}
		linker, err := NewConceptLinker(completer, testConfig())
		require.NoError(t, err)

		_, err = linker.LinkConcepts(ctx, source, candidates, 5)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty candidate set short-circuits", func(t *testing.T) {
		completer := &scriptedCompleter{}
		linker, err := NewConceptLinker(completer, testConfig())
		require.NoError(t, err)

		ids, err := linker.LinkConcepts(ctx, source, nil, 5)
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.Zero(t, completer.calls)
	})

	t.Run("object wrapped response", func(t *testing.T) {
		linker, err := NewConceptLinker(&scriptedCompleter{responses: []string{`{"related_ids": [4, 2]}`}}, testConfig())
		require.NoError(t, err)

		ids, err := linker.LinkConcepts(ctx, source, candidates, 5)
		require.NoError(t, err)
		assert.Equal(t, []core.ID{4, 2}, ids)
	})
}

func TestNewConceptLinker_NilCompleter(t *testing.T) {
	_, err := NewConceptLinker(nil, testConfig())
	assert.ErrorIs(t, err, ErrCompleterRequired)
}
