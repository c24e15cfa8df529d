package main

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetRoom(t *testing.T) {
	t.Parallel()

	rl := newRoomList(&Config{})
	r := rl.create()
	t.Cleanup(r.stop)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{4}$`), r.code)

	found, ok := rl.get(r.code)
	require.True(t, ok)
	assert.Same(t, r, found)
	assert.Equal(t, r.code, found.snapshot().RoomCode)

	_, ok = rl.get("ZZZZ")
	assert.False(t, ok)
}

func TestRoomCodesDoNotCollideWhileLive(t *testing.T) {
	t.Parallel()

	rl := newRoomList(&Config{})
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		r := rl.create()
		t.Cleanup(r.stop)

		assert.False(t, seen[r.code], "code %s issued twice", r.code)
		seen[r.code] = true
	}
}

func TestDropIfEmpty(t *testing.T) {
	t.Parallel()

	rl := newRoomList(&Config{})
	r := rl.create()

	rl.dropIfEmpty(r.code)

	_, ok := rl.get(r.code)
	assert.False(t, ok)

	// dropping again is harmless
	rl.dropIfEmpty(r.code)
}

func TestDropIfEmptyKeepsOccupiedRoom(t *testing.T) {
	t.Parallel()

	rl := newRoomList(&Config{})
	r := rl.create()
	t.Cleanup(r.stop)

	r.apply(func(g GameState) GameState {
		return g.AddPlayer("p1", "Alice", "")
	})

	rl.dropIfEmpty(r.code)

	_, ok := rl.get(r.code)
	assert.True(t, ok, "a room with players seated must survive garbage collection")
}

func TestConnectionBinding(t *testing.T) {
	t.Parallel()

	rl := newRoomList(&Config{})
	r := rl.create()
	t.Cleanup(r.stop)

	_, ok := rl.roomFor("conn-1")
	require.False(t, ok)

	rl.bind("conn-1", r.code)
	found, ok := rl.roomFor("conn-1")
	require.True(t, ok)
	assert.Same(t, r, found)

	rl.unbind("conn-1")
	_, ok = rl.roomFor("conn-1")
	assert.False(t, ok)
}
