//go:build mem

package db

import (
	"context"
	"io"
)

// openSQLite is replaced in builds tagged mem, which carry no SQLite driver;
// sqlite:// URLs then get a memory store.
func openSQLite(ctx context.Context, url string) (Store, io.Closer, error) {
	return newMemStore(), nopCloser{}, nil
}
