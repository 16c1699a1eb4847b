package repository

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendKV     = "kv"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options selects and parameterizes a storage backend
type Options struct {
	Backend    string
	FilePath   string
	KVURL      string
	KVKey      string
	KVTimeout  time.Duration
	SQLitePath string
}

// Open builds the store named by opts.Backend. The returned close function
// releases any underlying resource and is never nil.
func Open(opts Options, logger logrus.FieldLogger) (EntryStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), noop, nil

	case BackendFile:
		return NewFileStore(opts.FilePath), noop, nil

	case BackendKV:
		kv := NewKVStore(opts.KVURL, opts.KVKey, opts.KVTimeout)
		return NewFallbackStore(kv, NewMemoryStore(), logger), noop, nil

	case BackendSQLite:
		db, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return NewSQLiteStore(db), db.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend %q", opts.Backend)
}
