package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultsNonPositive(t *testing.T) {
	assert.Equal(t, DefaultPerPage, New(0).PerPage)
	assert.Equal(t, DefaultPerPage, New(-3).PerPage)
	assert.Equal(t, 2, New(2).PerPage)
}

func TestParsePage(t *testing.T) {
	cases := map[string]int{
		"":    1,
		"1":   1,
		"3":   3,
		" 4 ": 4,
		"0":   1,
		"-2":  1,
		"abc": 1,
		"2.5": 1,
	}

	for raw, want := range cases {
		assert.Equal(t, want, ParsePage(raw), "raw=%q", raw)
	}
}

func TestWindow_FirstPage(t *testing.T) {
	w := New(2).Window(1, 5)

	assert.Equal(t, 0, w.Offset)
	assert.Equal(t, 2, w.Limit)
	assert.Equal(t, 3, w.LastPage)
	assert.Equal(t, 5, w.Total)
	assert.False(t, w.HasPrev())
	assert.True(t, w.HasNext())

	from, to, ok := w.Bounds(2)
	assert.True(t, ok)
	assert.Equal(t, 1, from)
	assert.Equal(t, 2, to)
}

func TestWindow_LastPartialPage(t *testing.T) {
	w := New(2).Window(3, 5)

	assert.Equal(t, 4, w.Offset)
	assert.True(t, w.HasPrev())
	assert.False(t, w.HasNext())

	from, to, ok := w.Bounds(1)
	assert.True(t, ok)
	assert.Equal(t, 5, from)
	assert.Equal(t, 5, to)
}

func TestWindow_PastLastPage(t *testing.T) {
	w := New(2).Window(9, 5)

	assert.Equal(t, 5, w.Offset)
	assert.Equal(t, 3, w.LastPage)
	assert.True(t, w.OutOfRange())
	assert.True(t, w.HasPrev())
	assert.False(t, w.HasNext())

	_, _, ok := w.Bounds(0)
	assert.False(t, ok)
}

func TestWindow_HugePageDoesNotOverflow(t *testing.T) {
	cases := []struct {
		name  string
		page  int
		total int
	}{
		{"max int", math.MaxInt, 3},
		{"wraps negative when multiplied", 1_000_000_000_000_000_000, 3},
		{"empty collection", math.MaxInt, 0},
		{"negative total", math.MaxInt, -7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := New(15).Window(tc.page, tc.total)

			assert.True(t, w.OutOfRange())
			assert.GreaterOrEqual(t, w.Offset, 0)
			assert.Equal(t, w.Total, w.Offset)
			assert.Equal(t, tc.page, w.CurrentPage)
			assert.Equal(t, 1, w.LastPage)
			assert.True(t, w.HasPrev())
			assert.False(t, w.HasNext())

			_, _, ok := w.Bounds(0)
			assert.False(t, ok)
		})
	}
}

func TestWindow_NegativeTotal(t *testing.T) {
	w := New(2).Window(1, -4)

	assert.Equal(t, 0, w.Total)
	assert.Equal(t, 0, w.Offset)
	assert.Equal(t, 1, w.LastPage)
	assert.True(t, w.OutOfRange())
}

func TestWindow_EmptyCollection(t *testing.T) {
	w := New(15).Window(1, 0)

	assert.Equal(t, 1, w.LastPage)
	assert.False(t, w.HasNext())
	assert.False(t, w.HasPrev())
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "http://example.com/api/articles?page=2", PageURL("http://example.com/api/articles", 2))
}
