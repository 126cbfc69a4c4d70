package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_WithMethods(t *testing.T) {
	id := New("alice", "manager")

	ip := net.ParseIP("192.168.1.100")
	issued := time.Now()
	expires := issued.Add(8 * time.Minute)
	id.WithRemoteIP(ip).WithValidity(issued, expires)

	assert.Equal(t, "alice", id.Subject)
	assert.Equal(t, "manager", id.Role)
	assert.Equal(t, ip, id.RemoteIP)
	assert.Equal(t, issued, id.IssuedAt)
	assert.Equal(t, expires, id.ExpiresAt)
}

func TestContextGetSet(t *testing.T) {
	ctx := context.Background()

	// Initially no identity
	id, ok := Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, id)

	// Set identity
	expected := New("alice", "manager")
	ctx = Set(ctx, expected)

	// Get identity
	id, ok = Get(ctx)
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, "alice", id.Subject)
	assert.Equal(t, "manager", id.Role)
}
