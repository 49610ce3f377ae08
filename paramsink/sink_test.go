package paramsink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/queryforge/sqlbuild/paramsink"
)

func TestInternAssignsDenseZeroBasedIndices(t *testing.T) {
	s := paramsink.New()

	assert.Equal(t, 0, s.Intern("a"))
	assert.Equal(t, 1, s.Intern("b"))
	assert.Equal(t, 2, s.Intern("c"))
	assert.Equal(t, 3, s.Len())
}

func TestInternDeduplicatesEqualValues(t *testing.T) {
	s := paramsink.New()

	first := s.Intern(5)
	second := s.Intern(5)

	assert.Equal(t, first, second)
	assert.Equal(t, []any{5}, s.Values())
}

func TestInternDistinguishesCrossTypeEquality(t *testing.T) {
	s := paramsink.New()

	intIdx := s.Intern(1)
	int64Idx := s.Intern(int64(1))

	assert.NotEqual(t, intIdx, int64Idx)
	assert.Equal(t, []any{1, int64(1)}, s.Values())
}

func TestValuesReturnsACopy(t *testing.T) {
	s := paramsink.New()
	s.Intern("a")

	values := s.Values()
	values[0] = "mutated"

	assert.Equal(t, []any{"a"}, s.Values())
}
