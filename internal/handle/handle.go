// Package handle maps live resources to opaque integer tokens for transport
// across a foreign-function boundary.
//
// Callers on the far side of an FFI cannot hold Go pointers, so every
// resource family (encoder, decoder, stream) gets its own Table and hands
// out Tokens instead. A token from one table is meaningless in another,
// which keeps the handle families non-interchangeable.
package handle

import "sync"

// Token is an opaque handle as seen by a foreign caller.
//
// It is uintptr-wide so it round-trips through a machine-word integer on the
// far side without truncation. Zero is never a valid token; creation
// failures can safely hand 0 back to the caller.
type Token uintptr

// Table allocates tokens for resources of a single family.
//
// Tokens are drawn from a monotonically increasing counter and never reused,
// so a stale token after Remove simply fails to resolve rather than aliasing
// a newer resource.
type Table[T any] struct {
	mu      sync.Mutex
	next    Token
	entries map[Token]T
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries: make(map[Token]T),
	}
}

// Add registers a resource and returns its token.
func (t *Table[T]) Add(resource T) Token {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	t.entries[t.next] = resource
	return t.next
}

// Get resolves a token. The second return is false for zero, stale, or
// foreign tokens.
func (t *Table[T]) Get(token Token) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	resource, ok := t.entries[token]
	return resource, ok
}

// Remove resolves a token and unregisters it in one step, returning the
// resource so the caller can release it.
func (t *Table[T]) Remove(token Token) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	resource, ok := t.entries[token]
	if ok {
		delete(t.entries, token)
	}
	return resource, ok
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}
