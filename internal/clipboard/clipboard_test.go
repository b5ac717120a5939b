package clipboard

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ReadWrite(t *testing.T) {
	cb := NewMemory()

	text, err := cb.ReadText()
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, cb.WriteText(`{"name":"x"}`))
	text, err = cb.ReadText()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, text)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	cb := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cb.WriteText("value")
		}()
		go func() {
			defer wg.Done()
			_, _ = cb.ReadText()
		}()
	}
	wg.Wait()

	text, err := cb.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "value", text)
}

func TestUnavailable(t *testing.T) {
	var cb Clipboard = Unavailable{}

	_, err := cb.ReadText()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, cb.WriteText("x"), ErrUnavailable)
}

func TestSystem_OSC52Fallback(t *testing.T) {
	var buf bytes.Buffer
	cb := &System{out: &buf}

	// Either the OS clipboard accepts the write or the escape sequence is emitted.
	require.NoError(t, cb.WriteText("hello"))
	if buf.Len() > 0 {
		assert.True(t, strings.HasPrefix(buf.String(), "\x1b]52;"))
	}
}
