package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

var participantsKey = []byte("participants")

type participantRepository struct {
	db *badgerdb.DB
}

func NewParticipantRepository(db *badgerdb.DB) ports.ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Load(_ context.Context) ([]string, error) {
	var names []string
	err := r.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(participantsKey)
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &names)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	return names, nil
}

func (r *participantRepository) Save(_ context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}
	value, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode participants: %w", err)
	}
	return r.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(participantsKey, value)
	})
}
