package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock movement types.
const (
	EstoqueEntrada = "entrada"
	EstoqueSaida   = "saida"
	EstoqueAjuste  = "ajuste"
)

// MovimentoEstoque records every stock change on a product, with the stock
// level before and after so the history is auditable without replaying it.
type MovimentoEstoque struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProdutoID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Tipo: entrada | saida | ajuste
	Tipo            string          `gorm:"type:varchar(20);not null"`
	Quantidade      decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Motivo          *string
	ReferenciaID    *uuid.UUID `gorm:"type:uuid"`
	ReferenciaTipo  *string    `gorm:"type:varchar(50)"`
	EstoqueAnterior decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	EstoqueNovo     decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	CreatedAt       time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

// TableName overrides GORM pluralization.
func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }

func (m *MovimentoEstoque) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
