package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutGetJSON(t *testing.T) {
	ctx := context.Background()
	b, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	in := map[string]any{"x": 0.5, "y": 0.25}
	require.NoError(t, b.PutJSON(ctx, "Demo/pins.json", in))

	var out map[string]any
	found, err := b.GetJSON(ctx, "Demo/pins.json", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0.5, out["x"])

	// JSON written to disk is indented, matching the desktop app's files.
	raw, err := os.ReadFile(filepath.Join(b.Root(), "Demo", "pins.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"x\"")
}

func TestLocal_GetJSON_Missing(t *testing.T) {
	ctx := context.Background()
	b, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	var out any
	found, err := b.GetJSON(ctx, "Demo/absent.json", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLocal_ExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	b, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, b.PutBytes(ctx, "Demo/chat_data/photos/pin_101_x.jpg", []byte{1, 2}))

	ok, err := b.Exists(ctx, "Demo/chat_data/photos/pin_101_x.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Delete(ctx, "Demo/chat_data/photos/pin_101_x.jpg"))
	ok, err = b.Exists(ctx, "Demo/chat_data/photos/pin_101_x.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is a no-op.
	require.NoError(t, b.Delete(ctx, "Demo/chat_data/photos/pin_101_x.jpg"))
}

func TestLocal_ListPrefix(t *testing.T) {
	ctx := context.Background()
	b, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, b.PutBytes(ctx, "Demo/chat_data/pin_101_chat.json", []byte("[]")))
	require.NoError(t, b.PutBytes(ctx, "Demo/chat_data/pin_102_chat.json", []byte("[]")))
	require.NoError(t, b.PutBytes(ctx, "Demo/pins.json", []byte("[]")))
	require.NoError(t, b.PutBytes(ctx, "Other/chat_data/pin_101_chat.json", []byte("[]")))

	keys, err := b.ListPrefix(ctx, "Demo/chat_data/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"Demo/chat_data/pin_101_chat.json",
		"Demo/chat_data/pin_102_chat.json",
	}, keys)
}

func TestLocal_CorruptJSONIsAnError(t *testing.T) {
	ctx := context.Background()
	b, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, b.PutBytes(ctx, "Demo/pins.json", []byte("{not json")))

	var out any
	found, err := b.GetJSON(ctx, "Demo/pins.json", &out)
	assert.True(t, found)
	assert.Error(t, err)
}
