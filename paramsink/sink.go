// Package paramsink implements the ordered, de-duplicating parameter list
// the emitter binds SQL text against.
package paramsink

import "reflect"

// Sink interns host-language values and hands back dense, monotonic,
// zero-based parameter indices. Equal values (by host equality, treating
// nil and differently-typed values as distinct) share a single slot.
type Sink struct {
	values []any
	index  map[key]int
}

// key makes nil and cross-type equal-looking values distinct, matching the
// Parameter Sink equality rule in spec.md §4.2.
type key struct {
	typ reflect.Type
	val any
}

// New returns an empty Sink.
func New() *Sink {
	return &Sink{index: make(map[key]int)}
}

// Intern returns the existing index for value if one was already interned,
// otherwise appends it and returns the new index. value must already have
// passed through the special-encoding rules of §4.2 (nil/bool/empty-string/
// iterable) — Intern only ever stores values destined to become `@N`.
func (s *Sink) Intern(value any) int {
	k := key{typ: reflect.TypeOf(value), val: normalize(value)}
	if idx, ok := s.index[k]; ok {
		return idx
	}
	idx := len(s.values)
	s.values = append(s.values, value)
	s.index[k] = idx
	return idx
}

// normalize makes []byte values comparable as map keys by converting them
// to string. Other slices and arrays never reach Intern from the emitter,
// whose §4.2 encoding expands them element by element; values of other
// non-comparable types (maps, for example) are passed through unchanged.
func normalize(value any) any {
	switch v := value.(type) {
	case []byte:
		return string(v)
	default:
		return v
	}
}

// Values returns a copy of the interned values in index order; changing
// the returned slice does not affect the Sink.
func (s *Sink) Values() []any {
	return append([]any(nil), s.values...)
}

// Len reports how many distinct values have been interned so far.
func (s *Sink) Len() int {
	return len(s.values)
}
