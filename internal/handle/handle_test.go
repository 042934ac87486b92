package handle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroTokenIsNeverValid(t *testing.T) {
	table := NewTable[string]()

	_, ok := table.Get(0)
	assert.False(t, ok)

	token := table.Add("first")
	assert.NotEqual(t, Token(0), token)
}

func TestAddGetRemove(t *testing.T) {
	table := NewTable[string]()

	token := table.Add("resource")
	got, ok := table.Get(token)
	require.True(t, ok)
	assert.Equal(t, "resource", got)

	got, ok = table.Remove(token)
	require.True(t, ok)
	assert.Equal(t, "resource", got)

	_, ok = table.Get(token)
	assert.False(t, ok)
	_, ok = table.Remove(token)
	assert.False(t, ok)
	assert.Zero(t, table.Len())
}

func TestTokensAreNeverReused(t *testing.T) {
	table := NewTable[int]()

	seen := make(map[Token]bool)
	for i := 0; i < 1000; i++ {
		token := table.Add(i)
		require.False(t, seen[token], "token %d handed out twice", token)
		seen[token] = true

		// Removing immediately must not let the next Add alias this token.
		_, ok := table.Remove(token)
		require.True(t, ok)
	}
}

func TestManyLiveHandlesRoundTrip(t *testing.T) {
	table := NewTable[int]()

	tokens := make([]Token, 500)
	for i := range tokens {
		tokens[i] = table.Add(i)
	}
	assert.Equal(t, len(tokens), table.Len())

	for i, token := range tokens {
		got, ok := table.Remove(token)
		require.True(t, ok)
		assert.Equal(t, i, got)
	}
	assert.Zero(t, table.Len())
}

func TestTablesAreIndependent(t *testing.T) {
	encoders := NewTable[string]()
	decoders := NewTable[string]()

	encToken := encoders.Add("encoder")

	// Same numeric value, wrong family.
	_, ok := decoders.Get(encToken)
	assert.False(t, ok)
}

func TestConcurrentAddRemove(t *testing.T) {
	table := NewTable[int]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				token := table.Add(i*100 + j)
				_, ok := table.Get(token)
				assert.True(t, ok)
				_, ok = table.Remove(token)
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, table.Len())
}
