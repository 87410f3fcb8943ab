package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocal(dir)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "logo-1.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "logo-1.png", ref)

	b, err := os.ReadFile(filepath.Join(dir, "logo-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
}

func TestLocal_SaveRejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x.png", "a/b.png", ".hidden"} {
		_, err := store.Save(context.Background(), name, "image/png", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocal_SaveDoesNotOverwrite(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "a.png", "image/png", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "a.png", "image/png", strings.NewReader("second"))
	assert.Error(t, err)
}
