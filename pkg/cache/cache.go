package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	util "github.com/pqd/pqd-sdk/pkg/util"
)

// Cache - keyed store shared by the session storage and the product cache
type Cache interface {
	Get(key string) (interface{}, error)
	GetItem(key string) (*Item, error)
	GetKeys() []string
	HasItemChanged(key string, data interface{}) (bool, error)
	Set(key string, data interface{}) error
	Delete(key string) error
	Flush()
	Save(path string) error
	Load(path string) error
}

type action int

const (
	getAction action = iota
	keysAction
	setAction
	deleteAction
	hasChangedAction
	flushAction
	saveAction
	loadAction
)

type cacheAction struct {
	action action
	key    string
	data   interface{}
	path   string
}

type reply struct {
	item    *Item
	keys    []string
	err     error
	changed bool
}

// itemCache
type itemCache struct {
	Items         map[string]*Item `json:"cache"`
	actionChannel chan cacheAction
	replyChannel  chan reply
}

// New - create a new cache object
func New() Cache {
	newCache := &itemCache{
		Items:         make(map[string]*Item),
		actionChannel: make(chan cacheAction),
		replyChannel:  make(chan reply),
	}
	go newCache.handleAction()
	return newCache
}

// Load - create a new cache object and load saved data, a missing file yields an empty cache
func Load(path string) (Cache, error) {
	newCache := New()
	if err := newCache.Load(path); err != nil && !os.IsNotExist(err) {
		return newCache, err
	}
	return newCache, nil
}

// handleAction - handles all calls to the cache to prevent locking issues
func (c *itemCache) handleAction() {
	for {
		thisAction := <-c.actionChannel
		switch thisAction.action {
		case getAction:
			c.get(thisAction.key)
		case keysAction:
			c.keys()
		case hasChangedAction:
			c.hasItemChanged(thisAction.key, thisAction.data)
		case setAction:
			c.set(thisAction.key, thisAction.data)
		case deleteAction:
			c.delete(thisAction.key)
		case flushAction:
			c.flush()
		case saveAction:
			c.save(thisAction.path)
		case loadAction:
			c.load(thisAction.path)
		}
	}
}

// check the current hash vs the newHash, return true if it has changed
func (c *itemCache) hasItemChanged(key string, data interface{}) {
	thisReply := reply{
		changed: true,
		err:     nil,
	}
	defer func() {
		c.replyChannel <- thisReply
	}()

	item, ok := c.Items[key]
	if !ok {
		thisReply.err = fmt.Errorf("could not find item with key: %s", key)
		return
	}

	newHash, err := util.ComputeHash(data)
	if err != nil {
		thisReply.changed = false
		thisReply.err = err
		return
	}

	if item.Hash == newHash {
		thisReply.changed = false
	}
}

// returns the entire item, if found
func (c *itemCache) get(key string) {
	thisReply := reply{
		item: nil,
		err:  fmt.Errorf("could not find item with key: %s", key),
	}
	if item, ok := c.Items[key]; ok {
		thisReply = reply{
			item: item,
			err:  nil,
		}
	}
	c.replyChannel <- thisReply
}

func (c *itemCache) keys() {
	keys := make([]string, 0, len(c.Items))
	for k := range c.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	c.replyChannel <- reply{keys: keys}
}

// set the Item object to the key specified, updates the hash
func (c *itemCache) set(key string, data interface{}) {
	thisReply := reply{
		err: nil,
	}
	defer func() {
		c.replyChannel <- thisReply
	}()

	hash, err := util.ComputeHash(data)
	if err != nil {
		thisReply.err = err
		return
	}

	c.Items[key] = &Item{
		Object:     data,
		UpdateTime: time.Now().Unix(),
		Hash:       hash,
	}
}

// delete an item from the cache
func (c *itemCache) delete(key string) {
	thisReply := reply{
		err: nil,
	}
	defer func() {
		c.replyChannel <- thisReply
	}()

	if _, ok := c.Items[key]; !ok {
		thisReply.err = fmt.Errorf("cache item with key %s does not exist", key)
		return
	}

	delete(c.Items, key)
}

func (c *itemCache) flush() {
	defer func() {
		c.replyChannel <- reply{}
	}()

	c.Items = make(map[string]*Item)
}

func (c *itemCache) save(path string) {
	thisReply := reply{
		err: nil,
	}
	defer func() {
		c.replyChannel <- thisReply
	}()

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0700); err != nil {
		thisReply.err = err
		return
	}

	cacheBytes, err := json.Marshal(c)
	if err != nil {
		thisReply.err = err
		return
	}

	// write then rename so a crash never leaves a truncated file behind
	tmp := cleanPath + ".tmp"
	if err = os.WriteFile(tmp, cacheBytes, 0600); err != nil {
		thisReply.err = err
		return
	}
	thisReply.err = os.Rename(tmp, cleanPath)
}

func (c *itemCache) load(path string) {
	thisReply := reply{
		err: nil,
	}
	defer func() {
		c.replyChannel <- thisReply
	}()

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		thisReply.err = err
		return
	}
	defer file.Close()

	loaded := struct {
		Items map[string]*Item `json:"cache"`
	}{}
	if err = json.NewDecoder(file).Decode(&loaded); err != nil {
		thisReply.err = err
		return
	}
	if loaded.Items == nil {
		loaded.Items = make(map[string]*Item)
	}
	c.Items = loaded.Items
}

func (c *itemCache) runAction(thisAction cacheAction) reply {
	c.actionChannel <- thisAction
	return <-c.replyChannel
}

// Get - return the object in the cache
func (c *itemCache) Get(key string) (interface{}, error) {
	item, err := c.GetItem(key)
	if item != nil {
		return item.Object, nil
	}
	return nil, err
}

// GetItem - Return a pointer to the Item structure
func (c *itemCache) GetItem(key string) (*Item, error) {
	getReply := c.runAction(cacheAction{
		action: getAction,
		key:    key,
	})
	if getReply.err != nil {
		return nil, getReply.err
	}
	return getReply.item, nil
}

// GetKeys - the keys of all items, sorted
func (c *itemCache) GetKeys() []string {
	return c.runAction(cacheAction{action: keysAction}).keys
}

// HasItemChanged - Check if the item has changed
func (c *itemCache) HasItemChanged(key string, data interface{}) (bool, error) {
	changedReply := c.runAction(cacheAction{
		action: hasChangedAction,
		key:    key,
		data:   data,
	})
	return changedReply.changed, changedReply.err
}

// Set - Sets the object to the cache at the key specified
func (c *itemCache) Set(key string, data interface{}) error {
	return c.runAction(cacheAction{
		action: setAction,
		key:    key,
		data:   data,
	}).err
}

// Delete - Remove the item which is found with this key
func (c *itemCache) Delete(key string) error {
	return c.runAction(cacheAction{
		action: deleteAction,
		key:    key,
	}).err
}

// Flush - Clears the entire cache
func (c *itemCache) Flush() {
	c.runAction(cacheAction{
		action: flushAction,
	})
}

// Save - Saves the cache to the path specified as json
func (c *itemCache) Save(path string) error {
	return c.runAction(cacheAction{
		action: saveAction,
		path:   path,
	}).err
}

// Load - Loads the cache from the path specified, replacing its content
func (c *itemCache) Load(path string) error {
	return c.runAction(cacheAction{
		action: loadAction,
		path:   path,
	}).err
}
