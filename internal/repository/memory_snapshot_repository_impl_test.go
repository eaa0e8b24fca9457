package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySnapshotRepository_CopiesOnLoadAndStore(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository()

	persons := samplePersons()
	require.NoError(t, repo.StorePersons(ctx, persons))

	// Mutating the caller's slice must not leak into the store
	persons[0].Name = "changed"
	*persons[1].DischargedAt = time.Time{}

	got, err := repo.LoadPersons(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana López", got[0].Name)
	assert.False(t, got[1].DischargedAt.IsZero())

	got[0].Name = "changed again"
	again, err := repo.LoadPersons(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana López", again[0].Name)
}

func TestMemorySnapshotRepository_EmptyStore(t *testing.T) {
	repo := NewMemorySnapshotRepository()

	persons, err := repo.LoadPersons(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persons)

	surveys, err := repo.LoadSurveys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, surveys)
}
