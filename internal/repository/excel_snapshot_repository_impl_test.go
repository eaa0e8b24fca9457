package repository

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shelter-registry/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func samplePersons() []entity.Person {
	admitted := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	discharged := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)
	return []entity.Person{
		{
			Folio:                  "1001",
			Name:                   "Ana López",
			IdentificationDocument: "X123",
			Nationality:            "Honduras",
			Gender:                 "Mujer",
			BirthDate:              time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC),
			Age:                    34,
			Kind:                   entity.PersonKindSponsor,
			AdmittedAt:             admitted,
			DependentCapacity:      2,
		},
		{
			Folio:           "1001-A",
			Name:            "Luis López",
			BirthDate:       time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
			Age:             9,
			Kind:            entity.PersonKindDependent,
			SponsorFolio:    "1001",
			AdmittedAt:      admitted,
			DischargedAt:    &discharged,
			DischargeReason: "Traslado",
		},
	}
}

func TestExcelSnapshotRepository_CreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datos.xlsx")

	_, err := NewExcelSnapshotRepository(path, time.UTC, quietLogger())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetUsers, SheetPersons, SheetSurveys}, f.GetSheetList())

	rows, err := f.GetRows(SheetPersons)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, personColumns, rows[0])
}

func TestExcelSnapshotRepository_PersonsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewExcelSnapshotRepository(filepath.Join(t.TempDir(), "datos.xlsx"), time.UTC, quietLogger())
	require.NoError(t, err)

	want := samplePersons()
	require.NoError(t, repo.StorePersons(ctx, want))

	got, err := repo.LoadPersons(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExcelSnapshotRepository_StorePreservesOtherSheets(t *testing.T) {
	ctx := context.Background()
	repo, err := NewExcelSnapshotRepository(filepath.Join(t.TempDir(), "datos.xlsx"), time.UTC, quietLogger())
	require.NoError(t, err)

	surveys := []entity.Survey{{
		PersonFolio:     "1001",
		MaritalStatus:   "Soltero/a",
		EducationLevel:  "Primaria",
		MigratoryStatus: "Solicitante",
		SupportNetworks: entity.SurveyNotApplicable,
		Notes:           entity.SurveyNotApplicable,
	}}
	require.NoError(t, repo.StoreSurveys(ctx, surveys))
	require.NoError(t, repo.StorePersons(ctx, samplePersons()))

	got, err := repo.LoadSurveys(ctx)
	require.NoError(t, err)
	assert.Equal(t, surveys, got)

	persons, err := repo.LoadPersons(ctx)
	require.NoError(t, err)
	assert.Len(t, persons, 2)
}

func TestExcelSnapshotRepository_ReadsLegacyWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", SheetPersons))
	header := make([]interface{}, len(personColumns))
	for i, c := range personColumns {
		header[i] = c
	}
	require.NoError(t, f.SetSheetRow(SheetPersons, "A1", &header))
	sponsor := []interface{}{1001.0, "Ana", "nan", 30.0, "1994-01-01", "México", "Mujer", "Titular", "nan", "2025-01-10 12:00:00", 2.0, "nan", "nan"}
	dependent := []interface{}{"1001-A", "Luis", "", 8.0, "2016-01-01", "México", "Hombre", "Acompañante", "1001.0", "2025-01-10 12:00:00", "", "sin fecha", "Salida"}
	require.NoError(t, f.SetSheetRow(SheetPersons, "A2", &sponsor))
	require.NoError(t, f.SetSheetRow(SheetPersons, "A3", &dependent))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	repo, err := NewExcelSnapshotRepository(path, time.UTC, quietLogger())
	require.NoError(t, err)

	persons, err := repo.LoadPersons(context.Background())
	require.NoError(t, err)
	require.Len(t, persons, 2)

	assert.Equal(t, "1001", persons[0].Folio)
	assert.Equal(t, entity.PersonKindSponsor, persons[0].Kind)
	assert.Equal(t, 2, persons[0].DependentCapacity)
	assert.Equal(t, 30, persons[0].Age)
	assert.Empty(t, persons[0].IdentificationDocument)
	assert.True(t, persons[0].IsActive())
	assert.Equal(t, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC), persons[0].AdmittedAt)

	assert.Equal(t, entity.PersonKindDependent, persons[1].Kind)
	assert.Equal(t, "1001", persons[1].SponsorFolio)
	assert.Equal(t, 0, persons[1].DependentCapacity)
	require.NotNil(t, persons[1].DischargedAt)
	assert.True(t, persons[1].DischargedAt.IsZero())
	assert.Equal(t, "Salida", persons[1].DischargeReason)
}

func TestExcelSnapshotRepository_MissingSheetReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", SheetUsers))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	repo, err := NewExcelSnapshotRepository(path, time.UTC, quietLogger())
	require.NoError(t, err)

	surveys, err := repo.LoadSurveys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, surveys)

	require.NoError(t, repo.StoreSurveys(context.Background(), []entity.Survey{{PersonFolio: "1001"}}))

	check, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer check.Close()
	assert.Equal(t, []string{SheetUsers, SheetSurveys}, check.GetSheetList())
}

func TestExcelSnapshotRepository_FailedStoreKeepsPreviousWorkbook(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "datos.xlsx")

	repo, err := NewExcelSnapshotRepository(path, time.UTC, quietLogger())
	require.NoError(t, err)
	require.NoError(t, repo.StorePersons(ctx, samplePersons()))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, repo.StorePersons(cancelled, nil))

	persons, err := repo.LoadPersons(ctx)
	require.NoError(t, err)
	assert.Len(t, persons, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
