package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptedStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	files, err := NewFileStorage(path)
	require.Nil(t, err)

	storage, err := NewEncryptedStorage(files, []byte("key"))
	require.Nil(t, err)
	require.Nil(t, storage.SetItem(UserKey, `{"username":"alice","jwt":"abc"}`))

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.NotContains(t, string(data), "alice")

	value, ok := storage.GetItem(UserKey)
	assert.True(t, ok)
	assert.Equal(t, `{"username":"alice","jwt":"abc"}`, value)

	// a session written with another key is not usable and restores as anonymous
	reopened, err := NewFileStorage(path)
	require.Nil(t, err)
	wrongKey, err := NewEncryptedStorage(reopened, []byte("other"))
	require.Nil(t, err)
	_, ok = wrongKey.GetItem(UserKey)
	assert.False(t, ok)

	ctx := NewContext(wrongKey)
	state, err := ctx.Restore()
	assert.Nil(t, err)
	assert.Equal(t, Anonymous, state)

	// a plain session written before the key was configured is not trusted
	plain := NewMemoryStorage()
	require.Nil(t, plain.SetItem(UserKey, `{"username":"alice","jwt":"abc"}`))
	sealedView, err := NewEncryptedStorage(plain, []byte("key"))
	require.Nil(t, err)
	_, ok = sealedView.GetItem(UserKey)
	assert.False(t, ok)

	require.Nil(t, storage.RemoveItem(UserKey))
	_, ok = storage.GetItem(UserKey)
	assert.False(t, ok)
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	storage, err := NewFileStorage(path)
	require.Nil(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "opening a missing file must not create it")

	require.Nil(t, storage.SetItem(UserKey, `{"username":"alice"}`))
	_, err = os.Stat(path)
	require.Nil(t, err)

	// the same value again is not written
	require.Nil(t, os.Remove(path))
	require.Nil(t, storage.SetItem(UserKey, `{"username":"alice"}`))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.Nil(t, storage.SetItem(UserKey, `{"username":"bob"}`))
	reopened, err := NewFileStorage(path)
	require.Nil(t, err)
	value, ok := reopened.GetItem(UserKey)
	assert.True(t, ok)
	assert.Equal(t, `{"username":"bob"}`, value)

	// removing the last item removes the file
	require.Nil(t, storage.RemoveItem(UserKey))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, storage.RemoveItem(UserKey))
}

func TestMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()
	_, ok := storage.GetItem(UserKey)
	assert.False(t, ok)

	assert.Nil(t, storage.SetItem(UserKey, "value"))
	value, ok := storage.GetItem(UserKey)
	assert.True(t, ok)
	assert.Equal(t, "value", value)

	assert.Nil(t, storage.RemoveItem(UserKey))
	assert.Nil(t, storage.RemoveItem(UserKey))
	_, ok = storage.GetItem(UserKey)
	assert.False(t, ok)
}
