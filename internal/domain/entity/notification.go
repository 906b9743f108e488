package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationKind identifies the entity a notification refers to
type NotificationKind string

const (
	NotificationKindAppointment NotificationKind = "consulta"
	NotificationKindMedication  NotificationKind = "medicamento"
	NotificationKindExam        NotificationKind = "exame"
)

// Notification is a message surfaced to the user about one of their records.
// ReferenceID points at the record that caused it; nothing enforces that link.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID        `gorm:"column:usuario_id;type:uuid;not null;index" json:"owner_id"`
	Kind        NotificationKind `gorm:"column:tipo;type:varchar(20);not null;index" json:"kind"`
	ReferenceID uuid.UUID        `gorm:"column:referencia_id;type:uuid;not null;index" json:"reference_id"`
	Message     string           `gorm:"column:mensagem;type:text;not null" json:"message"`
	Read        bool             `gorm:"column:lida;not null;default:false;index" json:"read"`
	Sent        bool             `gorm:"column:enviada;not null;default:false" json:"sent"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notificacoes"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
