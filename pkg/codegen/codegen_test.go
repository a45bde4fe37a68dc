package codegen

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMinLength(t *testing.T) {
	test := func(minLength int, expectedLength int) {
		t.Run(fmt.Sprintf("minLength_%d", minLength), func(t *testing.T) {
			t.Parallel()
			code, err := New().Generate(minLength)
			require.NoError(t, err)
			assert.Len(t, code, expectedLength)
			assert.GreaterOrEqual(t, len(code), minLength)
		})
	}

	// one draw yields 32 hex characters, extra draws extend by 32
	test(1, 32)
	test(12, 32)
	test(16, 32)
	test(32, 32)
	test(33, 64)
	test(64, 64)
	test(100, 128)
}

func TestGenerateInvalidMinLength(t *testing.T) {
	_, err := New().Generate(0)
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = New().Generate(-5)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestGenerateUnique(t *testing.T) {
	g := New()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code, err := g.Generate(16)
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "generated duplicate code %q", code)
		seen[code] = struct{}{}
	}
}

func TestGenerateDeterministicSource(t *testing.T) {
	// a fixed random source must produce a predictable token, which lets
	// callers simulate collisions in their own tests
	g := NewWithReader(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))
	code, err := g.Generate(16)
	require.NoError(t, err)
	assert.Equal(t, "abababababababababababababababab", code)
}

func TestGenerateExhaustedSource(t *testing.T) {
	g := NewWithReader(bytes.NewReader(nil))
	_, err := g.Generate(16)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errs.InvalidArgument))
}
