package repository

import (
	"context"
	"fmt"
	"time"

	"shelter-registry/internal/domain/entity"
	domainRepo "shelter-registry/internal/domain/repository"

	"gorm.io/gorm"
)

// personRow is the persisted shape of entity.Person; Position keeps snapshot order
type personRow struct {
	Position               int        `gorm:"not null;index"`
	Folio                  string     `gorm:"type:varchar(32);primaryKey"`
	Name                   string     `gorm:"type:varchar(255);not null"`
	IdentificationDocument string     `gorm:"type:varchar(64)"`
	Nationality            string     `gorm:"type:varchar(100)"`
	Gender                 string     `gorm:"type:varchar(50)"`
	BirthDate              *time.Time `gorm:"type:date"`
	Age                    int
	Kind                   string `gorm:"type:varchar(20);not null"`
	SponsorFolio           string `gorm:"type:varchar(32);index"`
	AdmittedAt             time.Time
	DependentCapacity      int
	DischargedAt           *time.Time
	DischargeReason        string `gorm:"type:text"`
}

func (personRow) TableName() string {
	return "persons"
}

type surveyRow struct {
	Position         int    `gorm:"not null;index"`
	PersonFolio      string `gorm:"type:varchar(32);primaryKey"`
	MaritalStatus    string `gorm:"type:varchar(50)"`
	EducationLevel   string `gorm:"type:varchar(50)"`
	Occupation       string `gorm:"type:varchar(255)"`
	ChronicIllness   string `gorm:"type:text"`
	MigratoryStatus  string `gorm:"type:varchar(50)"`
	OriginExitReason string `gorm:"type:text"`
	FinalDestination string `gorm:"type:varchar(255)"`
	SupportNetworks  string `gorm:"type:text"`
	Notes            string `gorm:"type:text"`
}

func (surveyRow) TableName() string {
	return "surveys"
}

type postgresSnapshotRepository struct {
	db *gorm.DB
}

// NewPostgresSnapshotRepository migrates the persons and surveys tables and
// returns a store that replaces each table inside a single transaction.
func NewPostgresSnapshotRepository(db *gorm.DB) (domainRepo.SnapshotRepository, error) {
	if err := db.AutoMigrate(&personRow{}, &surveyRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot tables: %w", err)
	}
	return &postgresSnapshotRepository{db: db}, nil
}

func (r *postgresSnapshotRepository) LoadPersons(ctx context.Context) ([]entity.Person, error) {
	var rows []personRow
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	persons := make([]entity.Person, 0, len(rows))
	for _, row := range rows {
		p := entity.Person{
			Folio:                  row.Folio,
			Name:                   row.Name,
			IdentificationDocument: row.IdentificationDocument,
			Nationality:            row.Nationality,
			Gender:                 row.Gender,
			Age:                    row.Age,
			Kind:                   entity.PersonKind(row.Kind),
			SponsorFolio:           row.SponsorFolio,
			AdmittedAt:             row.AdmittedAt,
			DependentCapacity:      row.DependentCapacity,
			DischargedAt:           row.DischargedAt,
			DischargeReason:        row.DischargeReason,
		}
		if row.BirthDate != nil {
			p.BirthDate = *row.BirthDate
		}
		persons = append(persons, p)
	}
	return persons, nil
}

func (r *postgresSnapshotRepository) StorePersons(ctx context.Context, persons []entity.Person) error {
	rows := make([]personRow, 0, len(persons))
	for i, p := range persons {
		row := personRow{
			Position:               i,
			Folio:                  p.Folio,
			Name:                   p.Name,
			IdentificationDocument: p.IdentificationDocument,
			Nationality:            p.Nationality,
			Gender:                 p.Gender,
			Age:                    p.Age,
			Kind:                   string(p.Kind),
			SponsorFolio:           p.SponsorFolio,
			AdmittedAt:             p.AdmittedAt,
			DependentCapacity:      p.DependentCapacity,
			DischargedAt:           p.DischargedAt,
			DischargeReason:        p.DischargeReason,
		}
		if !p.BirthDate.IsZero() {
			birthDate := p.BirthDate
			row.BirthDate = &birthDate
		}
		rows = append(rows, row)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&personRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

func (r *postgresSnapshotRepository) LoadSurveys(ctx context.Context) ([]entity.Survey, error) {
	var rows []surveyRow
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	surveys := make([]entity.Survey, 0, len(rows))
	for _, row := range rows {
		surveys = append(surveys, entity.Survey{
			PersonFolio:      row.PersonFolio,
			MaritalStatus:    row.MaritalStatus,
			EducationLevel:   row.EducationLevel,
			Occupation:       row.Occupation,
			ChronicIllness:   row.ChronicIllness,
			MigratoryStatus:  row.MigratoryStatus,
			OriginExitReason: row.OriginExitReason,
			FinalDestination: row.FinalDestination,
			SupportNetworks:  row.SupportNetworks,
			Notes:            row.Notes,
		})
	}
	return surveys, nil
}

func (r *postgresSnapshotRepository) StoreSurveys(ctx context.Context, surveys []entity.Survey) error {
	rows := make([]surveyRow, 0, len(surveys))
	for i, s := range surveys {
		rows = append(rows, surveyRow{
			Position:         i,
			PersonFolio:      s.PersonFolio,
			MaritalStatus:    s.MaritalStatus,
			EducationLevel:   s.EducationLevel,
			Occupation:       s.Occupation,
			ChronicIllness:   s.ChronicIllness,
			MigratoryStatus:  s.MigratoryStatus,
			OriginExitReason: s.OriginExitReason,
			FinalDestination: s.FinalDestination,
			SupportNetworks:  s.SupportNetworks,
			Notes:            s.Notes,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&surveyRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}
