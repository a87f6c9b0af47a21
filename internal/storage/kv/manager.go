package kv

import (
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendMemory  = "memory"
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
)

// Open creates a DB for the named backend. dataDir is ignored by the memory
// backend; on-disk backends store under dataDir/state.<backend>.
func Open(backend, dataDir string) (DB, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryDB(), nil
	case BackendPebble:
		return OpenPebble(filepath.Join(dataDir, "state.pebble"))
	case BackendLevelDB:
		return OpenLevelDB(filepath.Join(dataDir, "state.leveldb"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
