package postgres

import "sync"

var (
	sharedOnce sync.Once
	shared     *Adapter
	sharedErr  error
)

// SharedAdapter returns the process-wide adapter handle, constructing it on
// the first call. The document-store connection authenticates once per
// process lifetime; every later call returns the same handle (or the same
// initialization error) regardless of the arguments passed.
func SharedAdapter(dsn string, maxOpenConns, maxIdleConns int) (*Adapter, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = NewAdapter(dsn, maxOpenConns, maxIdleConns)
	})
	return shared, sharedErr
}
