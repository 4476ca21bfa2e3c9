package badger

import (
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// Open opens the badger database at path. An empty path keeps everything in
// memory.
func Open(path string) (*badgerdb.DB, error) {
	opts := badgerdb.DefaultOptions(path).WithLoggingLevel(badgerdb.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return db, nil
}
