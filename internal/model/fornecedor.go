package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fornecedor is a supplier, referenced by purchases and expenses.
type Fornecedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nome      string    `gorm:"not null"`
	CNPJ      *string   `gorm:"uniqueIndex"`
	Email     *string
	Telefone  *string
	Endereco  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM pluralization (fornecedors → fornecedores).
func (Fornecedor) TableName() string { return "fornecedores" }

func (f *Fornecedor) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
