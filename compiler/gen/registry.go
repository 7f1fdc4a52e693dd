package gen

import (
	"fmt"
)

// Memo is an insertion-ordered cache of descriptors.
type Memo[D any] struct {
	family string
	items  map[string]D
	keys   []string
	misses int
}

func newMemo[D any](family string) *Memo[D] {
	return &Memo[D]{family: family, items: make(map[string]D)}
}

// getOrCreate returns the descriptor stored under key. On a miss it stores
// the result of create and reports created. The caller completes a created
// descriptor after it is stored, so references back to key resolve to the
// same descriptor.
func (m *Memo[D]) getOrCreate(key string, create func() D) (D, bool) {
	if d, ok := m.items[key]; ok {
		return d, false
	}
	d := create()
	m.items[key] = d
	m.keys = append(m.keys, key)
	m.misses++
	return d, true
}

// Lookup returns the descriptor stored under key.
func (m *Memo[D]) Lookup(key string) (D, error) {
	d, ok := m.items[key]
	if !ok {
		var zero D
		return zero, fmt.Errorf("%w: %s %s", ErrDanglingReference, m.family, key)
	}
	return d, nil
}

// Has reports whether key is stored.
func (m *Memo[D]) Has(key string) bool {
	_, ok := m.items[key]
	return ok
}

// Keys returns the stored keys in insertion order.
func (m *Memo[D]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of stored descriptors.
func (m *Memo[D]) Len() int { return len(m.keys) }

// Created returns the number of create calls, which equals the number of
// stored descriptors unless the memo was rolled back.
func (m *Memo[D]) Created() int { return m.misses }

// truncate drops the descriptors stored after the first n.
func (m *Memo[D]) truncate(n int) {
	for _, k := range m.keys[n:] {
		delete(m.items, k)
	}
	m.keys = m.keys[:n]
}

// Registry memoizes the descriptors of one run, keyed by the qualified
// model name.
type Registry struct {
	Models     *Memo[*ModelDescriptor]
	Dtos       *Memo[*DtoDescriptor]
	Converters *Memo[*ConverterDescriptor]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Models:     newMemo[*ModelDescriptor]("model"),
		Dtos:       newMemo[*DtoDescriptor]("dto"),
		Converters: newMemo[*ConverterDescriptor]("converter"),
	}
}

// mark records the size of every family.
type mark [3]int

func (r *Registry) mark() mark {
	return mark{r.Models.Len(), r.Dtos.Len(), r.Converters.Len()}
}

// rollback drops the descriptors registered after m.
func (r *Registry) rollback(m mark) {
	r.Models.truncate(m[0])
	r.Dtos.truncate(m[1])
	r.Converters.truncate(m[2])
}
