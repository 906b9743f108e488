package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Medication is a treatment the patient tracks, with the times of day it is taken.
type Medication struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID uuid.UUID                   `gorm:"column:paciente_id;type:uuid;not null;index" json:"patient_id"`
	Name      string                      `gorm:"column:nome;type:varchar(255);not null" json:"name"`
	Dosage    string                      `gorm:"column:dosagem;type:varchar(120);not null" json:"dosage"`
	Frequency string                      `gorm:"column:frequencia;type:varchar(120);not null" json:"frequency"`
	Times     datatypes.JSONSlice[string] `gorm:"column:horarios;not null" json:"times"`
	StartDate time.Time                   `gorm:"column:data_inicio;type:date;not null" json:"start_date"`
	EndDate   *time.Time                  `gorm:"column:data_fim;type:date" json:"end_date,omitempty"`
	Notes     string                      `gorm:"column:observacoes;type:text" json:"notes"`
	CreatedAt time.Time                   `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Medication) TableName() string {
	return "medicamentos"
}

func (m *Medication) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IsContinuous reports whether the medication has no end date
func (m *Medication) IsContinuous() bool {
	return m.EndDate == nil
}
