package options

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

const keyOptions = "options"

// Store keeps the engine options between runs.
type Store struct {
	db *badger.DB
}

func OpenStore(dir string) (*Store, Error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, Wrap(err)
	}
	return &Store{db: db}, NilError
}

func (s *Store) Close() Error {
	if s == nil || s.db == nil {
		return NilError
	}
	return Wrap(s.db.Close())
}

// Load returns the saved options, or the defaults when nothing was saved yet.
func (s *Store) Load() (Options, Error) {
	result := Defaults()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if err != nil {
		return Defaults(), Wrap(err)
	}

	if validation := result.Validate(); !IsNil(validation) {
		return Defaults(), validation
	}
	return result, NilError
}

func (s *Store) Save(o Options) Error {
	data, err := json.Marshal(o)
	if err != nil {
		return Wrap(err)
	}

	return Wrap(s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	}))
}
