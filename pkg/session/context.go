package session

import (
	"context"
	"encoding/json"
	"sync"

	log "github.com/pqd/pqd-sdk/pkg/util/log"
)

// Context - holds the logged in identity and mirrors it to local storage
type Context struct {
	mutex    sync.RWMutex
	storage  LocalStorage
	identity *Identity
	logger   log.FieldLogger
}

// NewContext - creates a session context on top of storage, call Restore to load a saved session
func NewContext(storage LocalStorage) *Context {
	return &Context{
		storage: storage,
		logger:  log.NewFieldLogger().WithPackage("sdk.session").WithComponent("sessionContext"),
	}
}

func (c *Context) ready() error {
	if c == nil || c.storage == nil {
		return ErrNoSessionContext
	}
	return nil
}

// Restore - loads the saved identity. A missing, unreadable or token-less record is cleared
// and leaves the context Anonymous.
func (c *Context) Restore() (State, error) {
	if err := c.ready(); err != nil {
		return Anonymous, err
	}

	saved, found := c.storage.GetItem(UserKey)
	if found && saved != "" {
		identity := &Identity{}
		if err := json.Unmarshal([]byte(saved), identity); err != nil {
			c.logger.WithError(err).Debug("discarding unreadable saved session")
		} else if identity.JWT != "" {
			c.mutex.Lock()
			c.identity = identity
			c.mutex.Unlock()
			c.logger.WithField("username", identity.Username).Debug("restored saved session")
			return Authenticated, nil
		}
	}

	return Anonymous, c.Set(nil)
}

// Get - the current identity, nil when Anonymous
func (c *Context) Get() *Identity {
	if c.ready() != nil {
		return nil
	}
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.identity
}

// Token - the session token of the current identity
func (c *Context) Token() (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	identity := c.Get()
	if identity == nil || identity.JWT == "" {
		return "", ErrNotLoggedIn
	}
	return identity.JWT, nil
}

// State -
func (c *Context) State() State {
	if c.Get() == nil {
		return Anonymous
	}
	return Authenticated
}

// Set - replaces the identity and mirrors it to storage, nil clears both
func (c *Context) Set(identity *Identity) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.identity = identity
	if identity == nil {
		return c.storage.RemoveItem(UserKey)
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return c.storage.SetItem(UserKey, string(data))
}

// Logout - forgets the identity, nothing restorable is left behind
func (c *Context) Logout() error {
	if err := c.ready(); err != nil {
		return err
	}
	c.logger.Debug("logging out")
	return c.Set(nil)
}

// LoginWith - logs in through auth and stores the identity on success, a failed login clears the session
func (c *Context) LoginWith(ctx context.Context, auth *Authenticator, username, password string) (*Identity, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	identity, err := auth.Login(ctx, username, password)
	if err != nil {
		if clearErr := c.Set(nil); clearErr != nil {
			c.logger.WithError(clearErr).Warn("could not clear the session after a failed login")
		}
		return nil, err
	}
	return identity, c.Set(identity)
}
