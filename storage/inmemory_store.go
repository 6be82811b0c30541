package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const updateBufferSize = 255

var ErrInvalidDocument = errors.New("Document is not valid JSON")

type InmemoryStore struct {
	valuesMu sync.RWMutex
	values   []byte

	mu          sync.Mutex
	updateChans []chan *Update

	// stop willl be closed when Close() is called
	stop chan struct{}
}

func NewInmemoryStore() *InmemoryStore {
	return &InmemoryStore{
		values:      []byte(""),
		stop:        make(chan struct{}),
		updateChans: make([]chan *Update, 0),
	}
}

func (i *InmemoryStore) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.isRunning() {
		return nil
	}

	close(i.stop)

	for _, updateChan := range i.updateChans {
		close(updateChan)
	}
	i.updateChans = nil

	return nil
}

func (i *InmemoryStore) Set(ctx context.Context, path string, value interface{}) error {
	i.valuesMu.Lock()
	values, err := sjson.SetBytes(i.values, path, value)
	if err != nil {
		i.valuesMu.Unlock()
		return err
	}
	i.values = values
	raw := []byte(gjson.GetBytes(values, path).Raw)
	i.valuesMu.Unlock()

	i.notify(&Update{Key: path, Value: raw})

	return nil
}

func (i *InmemoryStore) Get(ctx context.Context, path string) (gjson.Result, error) {
	i.valuesMu.RLock()
	defer i.valuesMu.RUnlock()

	return gjson.GetBytes(i.values, path), nil
}

func (i *InmemoryStore) Delete(ctx context.Context, path string) error {
	i.valuesMu.Lock()
	values, err := sjson.DeleteBytes(i.values, path)
	if err != nil {
		i.valuesMu.Unlock()
		return err
	}
	i.values = values
	i.valuesMu.Unlock()

	i.notify(&Update{Key: path})

	return nil
}

func (i *InmemoryStore) ListenToUpdates() <-chan *Update {
	i.mu.Lock()
	defer i.mu.Unlock()

	updateChan := make(chan *Update, updateBufferSize)
	if !i.isRunning() {
		close(updateChan)
		return updateChan
	}

	i.updateChans = append(i.updateChans, updateChan)

	return updateChan
}

func (i *InmemoryStore) Restore(values []byte) error {
	if len(values) > 0 && !gjson.ValidBytes(values) {
		return ErrInvalidDocument
	}

	i.valuesMu.Lock()
	i.values = append([]byte(nil), values...)
	i.valuesMu.Unlock()

	return nil
}

func (i *InmemoryStore) Backup() ([]byte, error) {
	i.valuesMu.RLock()
	defer i.valuesMu.RUnlock()

	if len(i.values) == 0 {
		return []byte("{}"), nil
	}

	return append([]byte(nil), i.values...), nil
}

// notify fans an update out to every listener. Listeners that fall more than
// updateBufferSize updates behind miss updates rather than block writers.
func (i *InmemoryStore) notify(update *Update) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.isRunning() {
		return
	}

	for _, updateChan := range i.updateChans {
		select {
		case updateChan <- update:
		default:
		}
	}
}

// isRunning returns true if Close has not been called
func (i *InmemoryStore) isRunning() bool {
	select {
	case <-i.stop:
		return false

	default:
		return true
	}
}

var _ Store = (*InmemoryStore)(nil)
