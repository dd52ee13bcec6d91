// Package storage persists scanned enote records to disk, adapting the
// teacher's block/tx badger schema to key records by key image.
package storage

import (
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v3"

	"github.com/apexcoin/jamtis/scan"
)

// EnoteDB wraps BadgerDB for enote-store persistence.
type EnoteDB struct {
	db *badger.DB
}

// Open opens or creates a BadgerDB database at path.
func Open(path string) (*EnoteDB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // same as the teacher's storage/db.go

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &EnoteDB{db: db}, nil
}

// Close closes the database.
func (d *EnoteDB) Close() error {
	return d.db.Close()
}

// storedRecord is the JSON-serializable form of scan.Record: the group
// elements inside enote.FullRecord don't round-trip through encoding/json
// on their own, so persistence stores the flat scalar/byte fields a
// record needs to be reconstructed from, not the live Point/Scalar types.
type storedRecord struct {
	KeyImage       [32]byte
	Amount         uint64
	Index          [16]byte
	Type           int
	OriginStatus   scan.OriginStatus
	BlockIndex     uint64
	BlockTimestamp uint64
	TxID           [32]byte
	SpentStatus    scan.SpentStatus
	SpentBlock     uint64
	SpentTxID      [32]byte
}

func toStored(r scan.Record) storedRecord {
	return storedRecord{
		KeyImage:       r.Full.KeyImage.Bytes(),
		Amount:         r.Full.Amount,
		Index:          [16]byte(r.Full.Index),
		Type:           int(r.Full.Type),
		OriginStatus:   r.Origin.Status,
		BlockIndex:     r.Origin.BlockIndex,
		BlockTimestamp: r.Origin.BlockTimestamp,
		TxID:           r.Origin.TxID,
		SpentStatus:    r.Spent.Status,
		SpentBlock:     r.Spent.BlockIndex,
		SpentTxID:      r.Spent.TxID,
	}
}

// SaveRecord persists a record keyed by its key image.
func (d *EnoteDB) SaveRecord(r scan.Record) error {
	return d.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(toStored(r))
		if err != nil {
			return err
		}
		return txn.Set(makeRecordKey(r.Full.KeyImage.Bytes()), data)
	})
}

// GetRecord retrieves the stored fields for a record by key image.
// Returns badger.ErrKeyNotFound if absent.
func (d *EnoteDB) GetRecord(ki [32]byte) (storedRecord, error) {
	var sr storedRecord
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeRecordKey(ki))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sr)
		})
	})
	return sr, err
}

// ListRecords returns every stored record, for rebuilding an EnoteStore
// on wallet restart.
func (d *EnoteDB) ListRecords() ([]storedRecord, error) {
	var out []storedRecord
	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte{'r'}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var sr storedRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &sr)
			}); err != nil {
				return err
			}
			out = append(out, sr)
		}
		return nil
	})
	return out, err
}

// GetLatestHeight retrieves the last scanned chain height.
func (d *EnoteDB) GetLatestHeight() (uint64, error) {
	var height uint64
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("latest_height"))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				height = 0
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) < 8 {
				return errors.New("storage: invalid height data")
			}
			height = uint64(val[0]) | uint64(val[1])<<8 | uint64(val[2])<<16 | uint64(val[3])<<24 |
				uint64(val[4])<<32 | uint64(val[5])<<40 | uint64(val[6])<<48 | uint64(val[7])<<56
			return nil
		})
	})
	return height, err
}

// UpdateLatestHeight records the last scanned chain height.
func (d *EnoteDB) UpdateLatestHeight(height uint64) error {
	return d.db.Update(func(txn *badger.Txn) error {
		data := make([]byte, 8)
		for i := 0; i < 8; i++ {
			data[i] = byte(height >> (8 * i))
		}
		return txn.Set([]byte("latest_height"), data)
	})
}

func makeRecordKey(ki [32]byte) []byte {
	key := make([]byte, 33)
	key[0] = 'r' // record prefix
	copy(key[1:], ki[:])
	return key
}
