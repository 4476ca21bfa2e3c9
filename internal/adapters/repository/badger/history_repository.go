package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

const (
	roundPrefix = "round:"
	indexPrefix = "round-id:"
)

type historyRepository struct {
	db *badgerdb.DB
}

func NewHistoryRepository(db *badgerdb.DB) ports.HistoryRepository {
	return &historyRepository{db: db}
}

// roundKey is "round:{created_at_padded}:{uuid}" so a prefix scan returns
// rounds in creation order. The uuid breaks ties within one nanosecond.
func roundKey(entry domain.HistoryEntry) []byte {
	return fmt.Appendf(nil, "%s%019d:%s", roundPrefix, entry.CreatedAt.UnixNano(), entry.ID)
}

func indexKey(entry domain.HistoryEntry) []byte {
	return []byte(indexPrefix + entry.ID.String())
}

func (r *historyRepository) Append(_ context.Context, entry domain.HistoryEntry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode round: %w", err)
	}
	key := roundKey(entry)
	return r.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Set(key, value); err != nil {
			return fmt.Errorf("failed to store round: %w", err)
		}
		return txn.Set(indexKey(entry), key)
	})
}

func (r *historyRepository) Update(_ context.Context, entry domain.HistoryEntry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode round: %w", err)
	}
	return r.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(indexKey(entry))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return domain.ErrHistoryNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up round: %w", err)
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return txn.Set(key, value)
	})
}

func (r *historyRepository) List(_ context.Context) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := r.db.View(func(txn *badgerdb.Txn) error {
		prefix := []byte(roundPrefix)
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(value []byte) error {
				var entry domain.HistoryEntry
				if err := json.Unmarshal(value, &entry); err != nil {
					return fmt.Errorf("corrupt round at %s: %w", item.Key(), err)
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
