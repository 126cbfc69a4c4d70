package registry

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopFactory(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(noopFactory)

	r.Register("Invoice")

	assert.True(t, r.IsRegistered("Invoice"))
	assert.True(t, r.IsRegistered("invoice"), "lookups are case-insensitive")

	handler, ok := r.Lookup("invoice")
	assert.True(t, ok)
	assert.NotNil(t, handler)
}

func TestRegistry_Lookup_NotFound(t *testing.T) {
	r := NewRegistry(noopFactory)

	_, ok := r.Lookup("nonexistent")
	assert.False(t, ok)
	assert.False(t, r.IsRegistered("nonexistent"))
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	var built int32
	r := NewRegistry(func(name string) http.Handler {
		atomic.AddInt32(&built, 1)
		return noopFactory(name)
	})

	r.Register("Invoice")
	r.Register("Invoice")
	r.Register("invoice")

	assert.Equal(t, int32(1), atomic.LoadInt32(&built))
	assert.Equal(t, []string{"invoice"}, r.Registered())
}

func TestRegistry_Registered(t *testing.T) {
	r := NewRegistry(noopFactory)
	r.Register("Invoice")
	r.Register("Task")

	registered := r.Registered()
	assert.Len(t, registered, 2)
	assert.Contains(t, registered, "invoice")
	assert.Contains(t, registered, "task")
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	var built int32
	r := NewRegistry(func(name string) http.Handler {
		atomic.AddInt32(&built, 1)
		return noopFactory(name)
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Register("Invoice")
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&built), "one live handler per name")
	assert.Len(t, r.Registered(), 1)
}
