package context

import (
	stdctx "context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/cloudblog/internal/model"
)

var _ model.ContextManager = (*Manager)(nil)

func TestManager_SetAndGetUsername(t *testing.T) {
	m := NewManager()
	ctx := m.SetUsernameToContext(stdctx.Background(), "alice")

	got, ok := m.GetUsernameFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", got)
}

func TestManager_GetUsername_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetUsernameFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_GetUsername_Empty(t *testing.T) {
	m := NewManager()
	ctx := m.SetUsernameToContext(stdctx.Background(), "")
	_, ok := m.GetUsernameFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_SetUsername_Overrides(t *testing.T) {
	m := NewManager()
	ctx := m.SetUsernameToContext(stdctx.Background(), "alice")
	ctx = m.SetUsernameToContext(ctx, "bob")

	got, ok := m.GetUsernameFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "bob", got)
}

func TestManager_UnrelatedStringValueIgnored(t *testing.T) {
	type otherKey struct{}
	m := NewManager()
	ctx := stdctx.WithValue(stdctx.Background(), otherKey{}, "alice")

	_, ok := m.GetUsernameFromContext(ctx)
	assert.False(t, ok)
}
