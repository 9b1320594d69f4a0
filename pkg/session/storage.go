package session

import (
	"os"
	"sync"

	"github.com/pqd/pqd-sdk/pkg/cache"
	"github.com/pqd/pqd-sdk/pkg/util"
	pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"
)

// UserKey - the local storage key holding the serialized identity
const UserKey = "user"

// LocalStorage - string key/value storage that outlives the process
type LocalStorage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// FileStorage - LocalStorage kept in a json file, every change is saved immediately and the file is
// removed once the last item is
type FileStorage struct {
	path  string
	items cache.Cache
}

// NewFileStorage - opens the storage file at path, a missing file is an empty storage
func NewFileStorage(path string) (*FileStorage, error) {
	items, err := cache.Load(path)
	if err != nil {
		return nil, pqderrors.Wrap(ErrStorage, path).WithCause(err)
	}
	return &FileStorage{path: path, items: items}, nil
}

// GetItem -
func (s *FileStorage) GetItem(key string) (string, bool) {
	obj, err := s.items.Get(key)
	if err != nil {
		return "", false
	}
	value, ok := obj.(string)
	return value, ok
}

// SetItem - writing the value already stored leaves the file untouched
func (s *FileStorage) SetItem(key, value string) error {
	if changed, err := s.items.HasItemChanged(key, value); err == nil && !changed {
		return nil
	}
	if err := s.items.Set(key, value); err != nil {
		return err
	}
	return s.save()
}

// RemoveItem - removing a missing key is not an error
func (s *FileStorage) RemoveItem(key string) error {
	if err := s.items.Delete(key); err != nil {
		return nil
	}
	return s.save()
}

func (s *FileStorage) save() error {
	if len(s.items.GetKeys()) == 0 {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return pqderrors.Wrap(ErrStorage, s.path).WithCause(err)
		}
		return nil
	}
	if err := s.items.Save(s.path); err != nil {
		return pqderrors.Wrap(ErrStorage, s.path).WithCause(err)
	}
	return nil
}

// MemoryStorage - LocalStorage that lives only as long as the process
type MemoryStorage struct {
	items map[string]string
	sync.Mutex
}

// NewMemoryStorage -
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

// GetItem -
func (s *MemoryStorage) GetItem(key string) (string, bool) {
	s.Lock()
	defer s.Unlock()
	value, ok := s.items[key]
	return value, ok
}

// SetItem -
func (s *MemoryStorage) SetItem(key, value string) error {
	s.Lock()
	defer s.Unlock()
	s.items[key] = value
	return nil
}

// RemoveItem -
func (s *MemoryStorage) RemoveItem(key string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.items, key)
	return nil
}

// EncryptedStorage - LocalStorage that keeps every value encrypted in the wrapped storage
type EncryptedStorage struct {
	storage LocalStorage
	crypt   *util.SessionCipher
}

// NewEncryptedStorage - wraps storage, values are sealed with AES-GCM under key
func NewEncryptedStorage(storage LocalStorage, key []byte) (*EncryptedStorage, error) {
	crypt, err := util.NewSessionCipher(key)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	return &EncryptedStorage{storage: storage, crypt: crypt}, nil
}

// GetItem - a value that does not open with the key, or was stored unsealed, is reported as missing
func (s *EncryptedStorage) GetItem(key string) (string, bool) {
	sealed, ok := s.storage.GetItem(key)
	if !ok {
		return "", false
	}
	value, err := s.crypt.Open(key, sealed)
	if err != nil {
		return "", false
	}
	return value, true
}

// SetItem -
func (s *EncryptedStorage) SetItem(key, value string) error {
	sealed, err := s.crypt.Seal(key, value)
	if err != nil {
		return ErrStorage.WithCause(err)
	}
	return s.storage.SetItem(key, sealed)
}

// RemoveItem -
func (s *EncryptedStorage) RemoveItem(key string) error {
	return s.storage.RemoveItem(key)
}
