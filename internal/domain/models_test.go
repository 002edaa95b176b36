package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTerm(t *testing.T) {
	assert.Equal(t, "cats", NormalizeTerm("  cats\t\n"))
	assert.Equal(t, "", NormalizeTerm("   "))
	// "e" + combining acute composes to the single code point
	assert.Equal(t, "caf\u00e9", NormalizeTerm("cafe\u0301"))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t "))
	assert.False(t, IsBlank(" a "))
}

func TestNewResultSetDropsDuplicateIDs(t *testing.T) {
	rs := NewResultSet(3, "dogs", []Photo{
		{ID: 1, URL: "a"},
		{ID: 2, URL: "b"},
		{ID: 1, URL: "c"},
	})

	require.Equal(t, 2, rs.Len())
	assert.Equal(t, []int{1, 2}, rs.IDs())
	assert.Equal(t, uint64(3), rs.Seq)
	assert.Equal(t, "a", rs.Items[0].URL, "first occurrence wins")
}
