package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "agendada"
	AppointmentStatusConfirmed AppointmentStatus = "confirmada"
	AppointmentStatusCancelled AppointmentStatus = "cancelada"
	AppointmentStatusDone      AppointmentStatus = "realizada"
)

// Appointment represents a consultation booked by a patient
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID   uuid.UUID         `gorm:"column:paciente_id;type:uuid;not null;index" json:"patient_id"`
	SpecialtyID int               `gorm:"column:especialidade_id;not null;index" json:"specialty_id"`
	Date        time.Time         `gorm:"column:data;type:date;not null;index" json:"date"`
	Time        string            `gorm:"column:horario;type:varchar(5);not null" json:"time"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'agendada';index" json:"status"`
	Notes       string            `gorm:"column:observacoes;type:text" json:"notes"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Specialty *Specialty `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
}

func (Appointment) TableName() string {
	return "consultas"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
