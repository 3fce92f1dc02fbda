package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDrainPreservesOrder(t *testing.T) {
	var q Queue
	q.Push(KeyPress(Key1))
	q.Push(Scroll(0, -1))
	q.Push(KeyPress(KeyEscape))
	require.Equal(t, 3, q.Len())

	got := q.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, Key1, got[0].Key)
	assert.Equal(t, KindScroll, got[1].Kind)
	assert.Equal(t, KeyEscape, got[2].Key)

	assert.Zero(t, q.Len())
	assert.Nil(t, q.Drain())
}

func TestCursorToNDC(t *testing.T) {
	cases := []struct {
		name   string
		cx, cy float64
		x, y   float32
	}{
		{"top left", 0, 0, -1, 1},
		{"centre", 256, 256, 0, 0},
		{"bottom right", 512, 512, 1, -1},
		{"quarter", 128, 384, -0.5, -0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y := CursorToNDC(tc.cx, tc.cy, 512, 512)
			assert.InDelta(t, tc.x, x, 1e-6)
			assert.InDelta(t, tc.y, y, 1e-6)
		})
	}

	x, y := CursorToNDC(10, 10, 0, 512)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestKeyNames(t *testing.T) {
	assert.Equal(t, "0", Key0.String())
	assert.Equal(t, "6", Key6.String())
	assert.Equal(t, "A", KeyA.String())
	assert.Equal(t, "W", KeyW.String())
	assert.Equal(t, "Escape", KeyEscape.String())
	assert.Equal(t, "Unknown", Key(-3).String())
}

func TestKeyForRune(t *testing.T) {
	assert.Equal(t, KeyS, KeyForRune('s'))
	assert.Equal(t, KeyS, KeyForRune('S'))
	assert.Equal(t, Key3, KeyForRune('3'))
	assert.Equal(t, KeyUnknown, KeyForRune('#'))
	assert.Equal(t, Key5, DigitKey(5))
	assert.Equal(t, KeyUnknown, DigitKey(12))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "key F press", KeyPress(KeyF).String())
	assert.Equal(t, "scroll (0, -1)", Scroll(0, -1).String())
	assert.Equal(t, "empty event", Event{}.String())
}
