package entity

// Specialty is a medical specialty an appointment can be booked for.
type Specialty struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:nome;type:varchar(120);uniqueIndex;not null" json:"name"`
}

func (Specialty) TableName() string {
	return "especialidades"
}
