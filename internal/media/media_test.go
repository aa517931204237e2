package media_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/arkodev/learnhub/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := media.ObjectKey("photos", "avatar.PNG")

	parts := strings.Split(key, "/")
	require.Len(t, parts, 5, "key %q must be prefix/yyyy/m/d/name", key)

	assert.Equal(t, "photos", parts[0])
	assert.True(t, strings.HasSuffix(key, ".png"), "extension must be lowercased: %q", key)

	// random component keeps concurrent uploads from colliding
	assert.NotEqual(t, key, media.ObjectKey("photos", "avatar.PNG"))
}

func TestObjectKeyWithoutExtension(t *testing.T) {
	key := media.ObjectKey("videos", "raw-upload")

	assert.False(t, strings.Contains(key, "."), "no extension expected in %q", key)
	assert.True(t, strings.HasPrefix(key, "videos/"))
}

type stubStore struct {
	uploadErr error
	deleteErr error
}

func (s *stubStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return "https://media.test/" + key, nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	return s.deleteErr
}

func TestWithObserver(t *testing.T) {
	var ops []string
	var failures int

	observe := func(op string, fn func() error) error {
		ops = append(ops, op)
		err := fn()
		if err != nil {
			failures++
		}
		return err
	}

	store := &stubStore{}
	wrapped := media.WithObserver(store, observe)

	url, err := wrapped.Upload(context.Background(), "photos/a.png", "image/png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/photos/a.png", url)

	require.NoError(t, wrapped.Delete(context.Background(), "photos/a.png"))

	assert.Equal(t, []string{"upload", "delete"}, ops)
	assert.Zero(t, failures)

	store.uploadErr = errors.New("bucket gone")

	_, err = wrapped.Upload(context.Background(), "photos/b.png", "image/png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, 1, failures)
}
