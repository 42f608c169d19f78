package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyDSNSelectsMemory(t *testing.T) {
	m, err := New("")
	require.NoError(t, err)
	require.IsType(t, &MemoryRepositoryManager{}, m)

	assert.NoError(t, m.RunMigrations(context.Background()))
	assert.IsType(t, &users.MemoryRepository{}, m.Users())
	assert.NoError(t, m.Close())
}

func TestMemoryRepositoryManager_SharesOneStore(t *testing.T) {
	m := NewMemoryRepositoryManager()
	assert.Same(t, m.Users(), m.Users())
}
