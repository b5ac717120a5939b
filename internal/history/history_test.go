package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManager_SaveLoad(t *testing.T) {
	m := newManager(t)

	snap := Snapshot{
		Address:  "http://localhost:9090",
		Auth:     Auth{Selected: "bearer", Bearer: "tok"},
		Metadata: []MetadataEntry{{Key: "x-b", Value: "2"}, {Key: "x-a", Value: "1"}},
		Body:     "{\n  \"name\": \"x\"\n}",
	}
	require.NoError(t, m.Save("helloworld.Greeter/SayHello", 2, snap))

	got, err := m.Load("helloworld.Greeter/SayHello", 2)
	require.NoError(t, err)
	assert.Equal(t, snap.Address, got.Address)
	assert.Equal(t, snap.Auth, got.Auth)
	assert.Equal(t, snap.Metadata, got.Metadata)
	assert.Equal(t, snap.Body, got.Body)
	assert.False(t, got.SavedAt.IsZero())

	again, err := m.Load("helloworld.Greeter/SayHello", 2)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestManager_SaveOverwrites(t *testing.T) {
	m := newManager(t)

	require.NoError(t, m.Save("a.B/C", 1, Snapshot{Body: "{}"}))
	require.NoError(t, m.Save("a.B/C", 1, Snapshot{Body: `{"x":1}`}))

	got, err := m.Load("a.B/C", 1)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, got.Body)

	slots, err := m.Slots("a.B/C")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, slots)
}

func TestManager_NotFound(t *testing.T) {
	m := newManager(t)

	_, err := m.Load("a.B/C", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Delete(t *testing.T) {
	m := newManager(t)

	require.NoError(t, m.Save("a.B/C", 1, Snapshot{Body: "{}"}))
	require.NoError(t, m.Save("a.B/C", 4, Snapshot{Body: "{}"}))
	require.NoError(t, m.Save("a.B/D", 1, Snapshot{Body: "{}"}))

	require.NoError(t, m.Delete("a.B/C"))

	slots, err := m.Slots("a.B/C")
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = m.Load("a.B/D", 1)
	assert.NoError(t, err)
}

func TestManager_InvalidSlot(t *testing.T) {
	m := newManager(t)

	assert.ErrorIs(t, m.Save("a.B/C", 0, Snapshot{}), ErrInvalidSlot)
	_, err := m.Load("a.B/C", 6)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestOpen_Disabled(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "unused.db"), true)
	require.NoError(t, err)

	require.NoError(t, store.Save("a.B/C", 1, Snapshot{Body: "{}"}))
	_, err = store.Load("a.B/C", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Close())
}
