package service

import (
	"errors"
	"fmt"
	"strconv"

	"shelter-registry/internal/domain/entity"
	"shelter-registry/pkg/folio"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrSponsorNotFound is returned when no sponsor row matches the requested sponsor folio
	ErrSponsorNotFound = errors.New("sponsor not found")

	// ErrCapacityExceeded is returned when the sponsor has no dependent slot left
	ErrCapacityExceeded = errors.New("sponsor dependent capacity exceeded")

	// ErrAlphabetExhausted is returned when a sponsor already has 26 dependents
	ErrAlphabetExhausted = errors.New("dependent suffix alphabet exhausted")
)

// CapacityExceededError carries the sponsor's limit and current dependent count
type CapacityExceededError struct {
	Limit   int
	Current int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: limit %d, current %d", ErrCapacityExceeded, e.Limit, e.Current)
}

func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// =============================================================================
// Constants
// =============================================================================

const (
	// First folio handed to a sponsor in an empty register
	firstSponsorFolio = 1001

	// Dependent suffixes run from A to Z
	maxDependentSuffix = 25
)

// =============================================================================
// Generator
// =============================================================================

// FolioGenerator derives the next folio from the current person table
type FolioGenerator struct {
	log *logrus.Logger
}

func NewFolioGenerator(log *logrus.Logger) *FolioGenerator {
	return &FolioGenerator{log: log}
}

// Next computes the folio the next admission of kind would get over an already
// loaded person table. It does not reserve the folio; callers that persist must
// load, call Next and store while holding the snapshot lock.
//
// Sponsors get 1001 plus the number of sponsor rows, advanced past any value
// already taken. Dependents get <sponsor>-<letter>, where the letter indexes
// every row ever linked to that sponsor, discharged rows included.
func (g *FolioGenerator) Next(persons []entity.Person, kind entity.PersonKind, sponsorFolio string) (string, error) {
	if kind == entity.PersonKindDependent {
		return g.nextDependent(persons, sponsorFolio)
	}
	return g.nextSponsor(persons), nil
}

func (g *FolioGenerator) nextSponsor(persons []entity.Person) string {
	taken := make(map[string]struct{}, len(persons))
	sponsors := 0
	for i := range persons {
		taken[folio.Normalize(persons[i].Folio)] = struct{}{}
		if persons[i].IsSponsor() {
			sponsors++
		}
	}

	n := firstSponsorFolio + sponsors
	for {
		candidate := strconv.Itoa(n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
		g.log.Debugf("Sponsor folio %s already taken, advancing", candidate)
		n++
	}
}

func (g *FolioGenerator) nextDependent(persons []entity.Person, sponsorFolio string) (string, error) {
	target := folio.Normalize(sponsorFolio)
	if target == "" {
		return "", ErrSponsorNotFound
	}

	var sponsor *entity.Person
	for i := range persons {
		if persons[i].IsSponsor() && folio.Equal(persons[i].Folio, target) {
			sponsor = &persons[i]
			break
		}
	}
	if sponsor == nil {
		return "", ErrSponsorNotFound
	}

	current := CountDependents(persons, target)
	if current >= sponsor.DependentCapacity {
		return "", &CapacityExceededError{Limit: sponsor.DependentCapacity, Current: current}
	}
	if current > maxDependentSuffix {
		return "", ErrAlphabetExhausted
	}

	return fmt.Sprintf("%s-%c", target, 'A'+current), nil
}

// CountDependents counts rows linked to sponsorFolio, discharged ones included
func CountDependents(persons []entity.Person, sponsorFolio string) int {
	target := folio.Normalize(sponsorFolio)
	if target == "" {
		return 0
	}

	count := 0
	for i := range persons {
		if folio.Equal(persons[i].SponsorFolio, target) {
			count++
		}
	}
	return count
}
