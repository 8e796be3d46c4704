package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()
	stub := NewStubObjectStorage()

	t.Run("upload url", func(t *testing.T) {
		url, expiresAt, err := stub.GenerateUploadURL(ctx, "acceptances/abc/photo1.jpg", "image/jpeg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "acceptances/abc/photo1.jpg")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("download url", func(t *testing.T) {
		url, _, err := stub.GenerateDownloadURL(ctx, "acceptances/abc/photo1.jpg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "/download/")
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, _, err := stub.GenerateUploadURL(ctx, "", "image/jpeg", time.Minute)
		assert.Error(t, err)

		_, err2 := stub.ObjectExists(ctx, "")
		assert.Error(t, err2)
	})

	t.Run("exists always true", func(t *testing.T) {
		exists, err := stub.ObjectExists(ctx, "anything")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
