package kv

import (
	"context"
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is an alternative on-disk backend.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) a leveldb store at path.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if l.db == nil {
		return nil, ErrDBClosed
	}
	val, err := l.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return val, nil
}

func (l *LevelDB) Write(ctx context.Context, key, value []byte) error {
	if l.db == nil {
		return ErrDBClosed
	}
	return l.db.Put(key, value, nil)
}

func (l *LevelDB) Delete(ctx context.Context, key []byte) error {
	if l.db == nil {
		return ErrDBClosed
	}
	return l.db.Delete(key, nil)
}

func (l *LevelDB) Batch(ctx context.Context, ops []BatchOperation) error {
	if l.db == nil {
		return ErrDBClosed
	}
	batch := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case BatchPut:
			batch.Put(op.Key, op.Value)
		case BatchDelete:
			batch.Delete(op.Key)
		}
	}
	return l.db.Write(batch, nil)
}

func (l *LevelDB) Iterator(ctx context.Context, start, end []byte) (Iterator, error) {
	if l.db == nil {
		return nil, ErrDBClosed
	}
	iter := l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &leveldbIterator{iter: iter}, nil
}

func (l *LevelDB) Close() error {
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

type leveldbIterator struct {
	iter interface {
		Next() bool
		Key() []byte
		Value() []byte
		Error() error
		Release()
	}
}

func (it *leveldbIterator) Next() bool { return it.iter.Next() }

func (it *leveldbIterator) Key() []byte {
	k := it.iter.Key()
	out := make([]byte, len(k))
	copy(out, k)
	return out
}

func (it *leveldbIterator) Value() []byte {
	v := it.iter.Value()
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

func (it *leveldbIterator) Error() error { return it.iter.Error() }

func (it *leveldbIterator) Close() error {
	it.iter.Release()
	return it.iter.Error()
}
