package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	got, err := CleanName(`posts\featured//a.jpg`)
	require.NoError(t, err)
	assert.Equal(t, "posts/featured/a.jpg", got)

	_, err = CleanName("../etc/passwd")
	assert.Error(t, err)
	_, err = CleanName("")
	assert.Error(t, err)
}

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	ok, err := s.Exists(ctx, "posts/featured/a.webp")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "posts/featured/a.webp", strings.NewReader("data")))
	ok, err = s.Exists(ctx, "posts/featured/a.webp")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Open(ctx, "posts/featured/a.webp")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "data", string(body))

	assert.Equal(t, "/media/posts/featured/a.webp", s.URL("posts/featured/a.webp"))

	require.NoError(t, s.Delete(ctx, "posts/featured/a.webp"))
	require.NoError(t, s.Delete(ctx, "posts/featured/a.webp"), "deleting a missing blob is a no-op")

	_, err = s.Open(ctx, "posts/featured/a.webp")
	assert.True(t, errors.Is(err, ErrNotExist))
}

func TestFilesystem(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir(), "/media/")
	require.NoError(t, err)
	exerciseStorage(t, fs)
}

func TestMemory(t *testing.T) {
	m := NewMemory("/media")
	exerciseStorage(t, m)
	assert.Equal(t, 1, m.Writes())
	assert.Equal(t, 1, m.Deletes())
	assert.Empty(t, m.Names())
}
