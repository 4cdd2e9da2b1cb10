package testutil

import (
	"testing"

	"studyvault/internal/budget"
	"studyvault/internal/compact"
	"studyvault/internal/store"
	"studyvault/internal/study"
)

// NewTestStore creates an in-memory sqlite-backed store with schema
// applied. The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		st.Close()
	})

	return st
}

// ServiceOptions configures NewTestService.
type ServiceOptions struct {
	Quota    int64
	Encoding budget.Encoding
	Opts     *study.Options
	Clock    *StubClock
}

// NewTestService wires a study.Service over a fresh memory store with a
// stub clock and sequential IDs. Returns the service, the underlying
// store, and the clock for time manipulation.
func NewTestService(t *testing.T, o ServiceOptions) (*study.Service, *store.MemoryStore, *StubClock) {
	t.Helper()

	if o.Quota == 0 {
		o.Quota = 1 << 20
	}
	clock := o.Clock
	if clock == nil {
		clock = FixedClock()
	}
	opts := study.DefaultOptions()
	if o.Opts != nil {
		opts = *o.Opts
	}

	st := store.NewMemoryStore()
	bm := budget.NewManager(st, o.Quota, o.Encoding)
	comp := compact.NewCompactor(60, 10, 30)

	svc := study.NewService(st, bm, comp, study.NewNopLogger(), clock, NewStubIDGenerator(), opts)
	t.Cleanup(func() {
		svc.Close()
	})
	return svc, st, clock
}
