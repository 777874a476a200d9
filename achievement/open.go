package achievement

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

const (
	BackendSQLite = "sqlite"
	BackendGdata  = "gdata"
	BackendMemory = "memory"
)

// OpenStore opens the store named by backend. dbPath is used by sqlite and
// appName by gdata.
func OpenStore(backend, dbPath, appName string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(dbPath)
	case BackendGdata:
		m, err := gdata.Open(gdata.Config{AppName: appName})
		if err != nil {
			return nil, fmt.Errorf("achievement: open gdata: %w", err)
		}
		return NewGdataStore(m), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("achievement: unknown store backend %q", backend)
}
