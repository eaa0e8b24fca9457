//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"testing"

	"shelter-registry/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Exec("DROP TABLE IF EXISTS persons, surveys")
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestPostgresSnapshotRepository_ReplacesTables(t *testing.T) {
	ctx := context.Background()
	repo, err := NewPostgresSnapshotRepository(openTestDB(t))
	require.NoError(t, err)

	persons := samplePersons()
	require.NoError(t, repo.StorePersons(ctx, persons))

	got, err := repo.LoadPersons(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1001", got[0].Folio)
	assert.Equal(t, "1001-A", got[1].Folio)
	assert.NotNil(t, got[1].DischargedAt)

	require.NoError(t, repo.StorePersons(ctx, persons[:1]))
	got, err = repo.LoadPersons(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	surveys := []entity.Survey{{PersonFolio: "1001", MaritalStatus: "Casado/a"}}
	require.NoError(t, repo.StoreSurveys(ctx, surveys))
	gotSurveys, err := repo.LoadSurveys(ctx)
	require.NoError(t, err)
	assert.Equal(t, surveys, gotSurveys)
}

func TestPostgresSnapshotRepository_DuplicateFolioRollsBack(t *testing.T) {
	ctx := context.Background()
	repo, err := NewPostgresSnapshotRepository(openTestDB(t))
	require.NoError(t, err)

	persons := samplePersons()
	require.NoError(t, repo.StorePersons(ctx, persons))

	duplicate := append(samplePersons(), persons[0])
	assert.Error(t, repo.StorePersons(ctx, duplicate))

	got, err := repo.LoadPersons(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
