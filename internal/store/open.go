package store

import "fmt"

// Media names accepted by OpenKV.
const (
	MediumMemory       = "memory"
	MediumSQLite       = "sqlite"
	MediumPostgres     = "postgres"
	MediumLocalStorage = "localstorage"
)

// OpenKV opens a KV medium by name. path is the SQLite database file and
// url the PostgreSQL connection string; each is ignored by the other media.
func OpenKV(medium, path, url string) (KV, error) {
	switch medium {
	case MediumMemory, "":
		return NewMemoryKV(), nil
	case MediumSQLite:
		if path == "" {
			return nil, fmt.Errorf("sqlite medium needs a database path")
		}
		return NewSQLiteKV(path)
	case MediumPostgres, "postgresql":
		if url == "" {
			return nil, fmt.Errorf("postgres medium needs a connection url")
		}
		return NewPostgresKV(url)
	case MediumLocalStorage:
		return openLocalStorage()
	default:
		return nil, fmt.Errorf("unknown key/value medium %q", medium)
	}
}
