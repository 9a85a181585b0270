package engine

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Cached payloads are msgpack-encoded row slices. msgpack round-trips
// nested maps and arrays and is considerably more compact than JSON for
// wide result sets.

func encodeRows(rows []Row) ([]byte, error) {
	return msgpack.Marshal(rows)
}

func decodeRows(payload []byte) ([]Row, error) {
	var rows []Row
	if err := msgpack.Unmarshal(payload, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
