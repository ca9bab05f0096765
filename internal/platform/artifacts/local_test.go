package artifacts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalPutGetListDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, DriverLocal, store.Driver())

	obj, err := store.Put(ctx, "reports/john-doe/1.png", []byte("png"), "")
	require.NoError(t, err)
	require.Equal(t, "reports/john-doe/1.png", obj.Key)
	require.EqualValues(t, 3, obj.Size)
	require.Equal(t, "image/png", obj.ContentType)

	_, err = store.Put(ctx, "reports/jane/1.png", []byte("other"), "")
	require.NoError(t, err)

	data, got, err := store.Get(ctx, "reports/john-doe/1.png")
	require.NoError(t, err)
	require.Equal(t, "png", string(data))
	require.Equal(t, obj.Key, got.Key)

	list, err := store.List(ctx, "reports/john-doe/")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, store.Delete(ctx, "reports/john-doe/1.png"))
	require.NoError(t, store.Delete(ctx, "reports/john-doe/1.png"))
	_, _, err = store.Get(ctx, "reports/john-doe/1.png")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalRejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	for _, key := range []string{"", "/etc/passwd", "../escape.png", "a/../../b"} {
		_, err := store.Put(context.Background(), key, []byte("x"), "")
		require.Error(t, err, "key %q", key)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), nil, Config{Driver: "ftp"})
	require.Error(t, err)

	s, err := Open(context.Background(), nil, Config{Driver: DriverLocal, LocalDir: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, DriverLocal, s.Driver())
}
