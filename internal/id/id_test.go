package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"user prefix", "user"},
		{"item prefix", "item"},
		{"link prefix", "link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.prefix)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, tt.prefix+"-"))
			// prefix + "-" + 21-char nanoid
			assert.Len(t, got, len(tt.prefix)+1+21)
		})
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 1000 {
		got, err := Generate("test")
		require.NoError(t, err)
		_, dup := seen[got]
		require.False(t, dup, "generated duplicate ID: %s", got)
		seen[got] = struct{}{}
	}
}

func TestMustGenerate(t *testing.T) {
	got := MustGenerate("user")
	assert.True(t, strings.HasPrefix(got, "user-"))
}

func TestShareToken_Length(t *testing.T) {
	for _, length := range []int{1, 5, ShareTokenLength, 32} {
		token, err := ShareToken(length)
		require.NoError(t, err)
		assert.Len(t, token, length)
	}
}

func TestShareToken_Alphabet(t *testing.T) {
	// Every character must come from the 62-symbol alphanumeric set.
	for range 100 {
		token, err := ShareToken(ShareTokenLength)
		require.NoError(t, err)
		for _, c := range token {
			assert.Contains(t, shareAlphabet, string(c))
		}
	}
}

func TestShareToken_InvalidLength(t *testing.T) {
	_, err := ShareToken(0)
	assert.Error(t, err)

	_, err = ShareToken(-1)
	assert.Error(t, err)
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		_, _ = Generate("bench")
	}
}

func BenchmarkShareToken(b *testing.B) {
	for b.Loop() {
		_, _ = ShareToken(ShareTokenLength)
	}
}
