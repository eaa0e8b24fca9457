package repository

import (
	"context"
	"sync"

	"shelter-registry/internal/domain/entity"
	domainRepo "shelter-registry/internal/domain/repository"
)

type memorySnapshotRepository struct {
	mu      sync.RWMutex
	persons []entity.Person
	surveys []entity.Survey
}

// NewMemorySnapshotRepository returns a snapshot store that lives in process memory
func NewMemorySnapshotRepository() domainRepo.SnapshotRepository {
	return &memorySnapshotRepository{}
}

func (r *memorySnapshotRepository) LoadPersons(ctx context.Context) ([]entity.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clonePersons(r.persons), nil
}

func (r *memorySnapshotRepository) StorePersons(ctx context.Context, persons []entity.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := clonePersons(persons)

	r.mu.Lock()
	r.persons = snapshot
	r.mu.Unlock()
	return nil
}

func (r *memorySnapshotRepository) LoadSurveys(ctx context.Context) ([]entity.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.Survey(nil), r.surveys...), nil
}

func (r *memorySnapshotRepository) StoreSurveys(ctx context.Context, surveys []entity.Survey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := append([]entity.Survey(nil), surveys...)

	r.mu.Lock()
	r.surveys = snapshot
	r.mu.Unlock()
	return nil
}

// clonePersons copies persons so callers never share discharge timestamps with the store
func clonePersons(persons []entity.Person) []entity.Person {
	out := make([]entity.Person, len(persons))
	for i, p := range persons {
		if p.DischargedAt != nil {
			t := *p.DischargedAt
			p.DischargedAt = &t
		}
		out[i] = p
	}
	return out
}
