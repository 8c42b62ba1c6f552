package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Venda is a completed sale. Numero follows the VD<yyyymmdd><seq> format.
// Cancelling a sale restores stock but never rewrites the row — it is flagged
// Cancelada with a timestamp.
type Venda struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Numero string    `gorm:"uniqueIndex;not null"`
	// Canal: comanda | balcao
	Canal           string    `gorm:"type:varchar(20);not null"`
	UsuarioID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Desconto        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPagamento string          `gorm:"type:varchar(20);not null"`
	Observacoes     *string
	Cancelada       bool `gorm:"not null;default:false"`
	CanceladaEm     *time.Time
	CreatedAt       time.Time

	Items []VendaItem `gorm:"foreignKey:VendaID;constraint:OnDelete:CASCADE"`
}

type VendaItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantidade    decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (v *Venda) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (i *VendaItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
