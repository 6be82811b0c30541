package storage

import (
	"context"

	"github.com/tidwall/gjson"
)

// Update is sent to listeners whenever a path of the document is written.
type Update struct {
	Key   string
	Value []byte
}

// Store holds the state of the stub player as a JSON document addressed by
// gjson paths, e.g. "volume" or "playlist.0.mrl".
type Store interface {
	Set(ctx context.Context, path string, value interface{}) error
	Get(ctx context.Context, path string) (gjson.Result, error)
	Delete(ctx context.Context, path string) error

	Restore(values []byte) error
	Backup() ([]byte, error)

	ListenToUpdates() <-chan *Update

	Close() error
}
