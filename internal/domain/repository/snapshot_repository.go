package repository

import (
	"context"

	"shelter-registry/internal/domain/entity"
)

// SnapshotRepository loads and stores the register tables as whole snapshots.
//
// Store calls replace the complete table and are all-or-nothing: when an
// error is returned the previously stored snapshot is left untouched.
// Load calls return rows in stored order; a table that was never written
// loads as empty.
type SnapshotRepository interface {
	LoadPersons(ctx context.Context) ([]entity.Person, error)
	StorePersons(ctx context.Context, persons []entity.Person) error
	LoadSurveys(ctx context.Context) ([]entity.Survey, error)
	StoreSurveys(ctx context.Context, surveys []entity.Survey) error
}
