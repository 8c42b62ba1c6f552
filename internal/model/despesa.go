package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense types.
const (
	DespesaFornecedor = "fornecedor"
	DespesaAluguel    = "aluguel"
	DespesaSalario    = "salario"
	DespesaImposto    = "imposto"
	DespesaEnergia    = "energia"
	DespesaAgua       = "agua"
	DespesaTelefone   = "telefone"
	DespesaInternet   = "internet"
	DespesaOutros     = "outros"
)

// Despesa is a business expense. Numero follows DP<yyyymmdd><seq>.
type Despesa struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Numero       string    `gorm:"uniqueIndex;not null"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null"`
	FornecedorID *uuid.UUID `gorm:"type:uuid;index"`
	Tipo         string     `gorm:"type:varchar(20);not null"`
	Descricao    string     `gorm:"not null"`
	Valor        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DataDespesa  time.Time       `gorm:"not null"`
	Vencimento   *time.Time
	Paga         bool `gorm:"not null;default:false"`
	PagaEm       *time.Time
	MetodoPagamento *string `gorm:"type:varchar(20)"`
	Observacoes  *string
	CreatedAt    time.Time

	Fornecedor *Fornecedor `gorm:"foreignKey:FornecedorID"`
}

func (d *Despesa) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
