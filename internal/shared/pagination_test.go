package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPagination(t *testing.T) {
	p := NewPagination(2, 12, 30)
	require.Equal(t, 3, p.TotalPages)
	require.Equal(t, 12, p.Offset())
	require.True(t, p.HasPrev())
	require.True(t, p.HasNext())
	require.Equal(t, 1, p.PrevPage())
	require.Equal(t, 3, p.NextPage())

	last := NewPagination(3, 12, 30)
	require.False(t, last.HasNext())

	defaults := NewPagination(0, 0, 0)
	require.Equal(t, 1, defaults.Page)
	require.Equal(t, 20, defaults.PerPage)
	require.False(t, defaults.HasPrev())
	require.False(t, defaults.HasNext())
}
