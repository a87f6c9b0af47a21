package treasury

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/state"
)

func putJSON(v state.View, key []byte, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return v.Set(key, data)
}

// getJSON loads a JSON record, passing state.ErrNotFound through untouched.
func getJSON(v state.View, key []byte, record any) error {
	data, err := v.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, record)
}

func putTimestamp(v state.View, key []byte, ts uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], ts)
	return v.Set(key, buf[:])
}

func getTimestamp(v state.View, key []byte) (uint64, error) {
	data, err := v.Get(key)
	if err != nil {
		if err == state.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupt timestamp record under %q", key)
	}
	return binary.BigEndian.Uint64(data), nil
}
