package document

import (
	"bytes"
	"testing"
	"time"

	"shelter-registry/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestGenerator() *Generator {
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewGenerator("Albergue Belén", time.UTC, func() time.Time { return fixed })
}

func TestGenerator_MovementReport(t *testing.T) {
	g := newTestGenerator()

	pdf, err := g.MovementReport(
		[]entity.MovementRow{{Period: "2025-01-10", Admissions: 2, Discharges: 0}},
		[]entity.MovementRow{{Period: "2025-01", Admissions: 2, Discharges: 1}},
	)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestGenerator_MovementReportEmpty(t *testing.T) {
	pdf, err := newTestGenerator().MovementReport(nil, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestGenerator_RulesAgreement(t *testing.T) {
	pdf, err := newTestGenerator().RulesAgreement("Ana López", time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestGenerator_RegisterWorkbook(t *testing.T) {
	discharged := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	persons := []entity.Person{
		{Folio: "1001", Name: "Ana", Kind: entity.PersonKindSponsor, Age: 30, DependentCapacity: 1, AdmittedAt: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)},
		{Folio: "1001-A", Name: "Luis", Kind: entity.PersonKindDependent, SponsorFolio: "1001", Age: 8, DischargedAt: &discharged, DischargeReason: "Traslado"},
	}

	data, err := newTestGenerator().RegisterWorkbook(persons)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(registerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, registerHeaders, rows[0])
	assert.Equal(t, "1001", rows[1][0])
	assert.Equal(t, "2025-01-10 12:00:00", rows[1][9])
	assert.Equal(t, "Acompañante", rows[2][7])
	assert.Equal(t, "2025-02-01 09:00:00", rows[2][11])
}
