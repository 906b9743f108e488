package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exam is a requested medical exam. Exams are registered by the clinic, never by the
// patient, so the portal only reads them.
type Exam struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID       uuid.UUID  `gorm:"column:paciente_id;type:uuid;not null;index" json:"patient_id"`
	Type            string     `gorm:"column:tipo;type:varchar(255);not null" json:"type"`
	RequestedAt     time.Time  `gorm:"column:data_solicitacao;type:date;not null;index" json:"requested_at"`
	PerformedAt     *time.Time `gorm:"column:data_realizacao;type:date" json:"performed_at,omitempty"`
	ResultAt        *time.Time `gorm:"column:data_resultado;type:date" json:"result_at,omitempty"`
	ResultAvailable bool       `gorm:"column:resultado_disponivel;not null;default:false" json:"result_available"`
	ResultURL       *string    `gorm:"column:resultado_url;type:text" json:"result_url,omitempty"`
	Notes           string     `gorm:"column:observacoes;type:text" json:"notes"`
}

func (Exam) TableName() string {
	return "exames"
}

func (e *Exam) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
