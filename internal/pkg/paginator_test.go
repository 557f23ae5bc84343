package pkg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name     string
		count    int64
		raw      string
		number   int
		numPages int
		offset   int
	}{
		{"absent page", 23, "", 1, 3, 0},
		{"second page", 23, "2", 2, 3, 10},
		{"last page", 23, "3", 3, 3, 20},
		{"past the end clamps", 23, "4", 3, 3, 20},
		{"far past the end clamps", 23, "999", 3, 3, 20},
		{"overflowing page clamps", 23, "99999999999999999999", 3, 3, 20},
		{"overflowing negative", 23, "-99999999999999999999", 1, 3, 0},
		{"non numeric", 23, "abc", 1, 3, 0},
		{"zero", 23, "0", 1, 3, 0},
		{"negative", 23, "-2", 1, 3, 0},
		{"empty sequence", 0, "5", 1, 1, 0},
		{"exact multiple", 20, "2", 2, 2, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWindow(tc.count, 10, tc.raw)
			assert.Equal(t, tc.number, w.Number)
			assert.Equal(t, tc.numPages, w.NumPages)
			assert.Equal(t, tc.offset, w.Offset)
			assert.Equal(t, 10, w.Limit)
		})
	}
}

func TestNewWindow_DefaultPageSize(t *testing.T) {
	w := NewWindow(25, 0, "")
	assert.Equal(t, DefaultPageSize, w.Limit)
	assert.Equal(t, 3, w.NumPages)
}

func TestSlice_Pages(t *testing.T) {
	items := seq(13)

	first := Slice(items, 10, "")
	assert.Equal(t, seq(10), first.Items)
	assert.False(t, first.HasPrevious)
	assert.True(t, first.HasNext)
	assert.Equal(t, int64(13), first.Count)

	second := Slice(items, 10, "2")
	assert.Equal(t, []int{11, 12, 13}, second.Items)
	assert.True(t, second.HasPrevious)
	assert.False(t, second.HasNext)
}

func TestSlice_ClampEqualsLastPage(t *testing.T) {
	for _, l := range []int{1, 9, 10, 11, 37} {
		items := seq(l)
		last := Slice(items, 10, fmt.Sprint(NewWindow(int64(l), 10, "").NumPages))
		for k := 0; k < 5; k++ {
			raw := fmt.Sprint(last.NumPages + k)
			got := Slice(items, 10, raw)
			require.Equal(t, last, got, "len=%d page=%s", l, raw)
		}
		require.Equal(t, last, Slice(items, 10, "99999999999999999999"), "len=%d overflow", l)
	}
}

func TestSlice_Empty(t *testing.T) {
	p := Slice([]string(nil), 10, "3")
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.NumPages)
}
