package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("hello"), "attendance/a/b.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "attendance/a/b.jpg", key)

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(body))

	url, err := s.GetURL(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/attendance/a/b.jpg", url)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStorage_TraversalIsContained(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://x")
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("x"), "../../etc/passwd", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", key)

	_, err = s.Upload(ctx, strings.NewReader("x"), "..", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidFilePath)
}
