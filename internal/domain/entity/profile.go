package entity

import (
	"github.com/google/uuid"
)

// Role constants
const (
	RolePatient = "paciente"
	RoleDoctor  = "medico"
	RoleAdmin   = "admin"
)

// Profile is the application-level user record, one-to-one with Identity.
type Profile struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"column:nome;type:varchar(255);not null" json:"name"`
	Phone string    `gorm:"column:telefone;type:varchar(30)" json:"phone"`
	Role  string    `gorm:"column:tipo;type:varchar(20);not null;default:'paciente'" json:"role"`
}

func (Profile) TableName() string {
	return "profiles"
}
