package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movement types for the cash ledger.
const (
	MovimentoEntrada = "entrada"
	MovimentoSaida   = "saida"
	MovimentoSangria = "sangria"
	MovimentoReforco = "reforco"
)

// Sale channels.
const (
	CanalComanda = "comanda"
	CanalBalcao  = "balcao"
)

// Payment methods.
const (
	PagamentoDinheiro = "dinheiro"
	PagamentoCartao   = "cartao"
	PagamentoPix      = "pix"
	PagamentoOutros   = "outros"
)

// Reference types linking a movement back to its origin.
const (
	ReferenciaVenda    = "venda"
	ReferenciaAbertura = "abertura"
)

// Caixa represents one till session. At most one row with Aberto=true exists
// at any time (enforced by a partial unique index plus the service mutex).
// Totals, SaldoEsperado and Diferenca are zero/nil while open and frozen
// exactly once on close; a closed caixa is immutable.
type Caixa struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	AbertoEm     time.Time       `gorm:"not null"`
	FechadoEm    *time.Time
	SaldoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoFinal   *decimal.Decimal `gorm:"type:decimal(12,2)"`

	TotalVendas   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalComanda  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalBalcao   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalDinheiro decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCartao   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalPix      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalOutros   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	SaldoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Diferenca is the quebra de caixa: counted minus expected, signed.
	Diferenca *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Observacoes *string
	Aberto      bool `gorm:"not null;default:true;index"`
	CreatedAt   time.Time

	Movimentos []MovimentoCaixa `gorm:"foreignKey:CaixaID;constraint:OnDelete:CASCADE"`
}

// MovimentoCaixa is an immutable entry in the cash ledger. Valor is always a
// positive magnitude; direction is derived from Tipo, never stored signed.
// Movements are created once and only removed by cascading deletion of the
// owning caixa.
type MovimentoCaixa struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	CaixaID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Tipo: entrada | saida | sangria | reforco
	Tipo string `gorm:"type:varchar(20);not null"`
	// Canal: comanda | balcao — only set for sale movements
	Canal *string `gorm:"type:varchar(20)"`
	// MetodoPagamento: dinheiro | cartao | pix | outros
	MetodoPagamento *string         `gorm:"type:varchar(20)"`
	Valor           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao       string          `gorm:"not null"`
	ReferenciaID    *uuid.UUID      `gorm:"type:uuid"`
	ReferenciaTipo  *string         `gorm:"type:varchar(50)"`
	CreatedAt       time.Time
}

// TableName overrides GORM pluralization (movimento_caixas → movimentos_caixa).
func (MovimentoCaixa) TableName() string { return "movimentos_caixa" }

// UUIDs are generated in the application so the schema works on both
// postgres and sqlite.

func (c *Caixa) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (m *MovimentoCaixa) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
