package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Compra is a stock purchase from a supplier. Numero follows CP<yyyymmdd><seq>.
type Compra struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Numero       string    `gorm:"uniqueIndex;not null"`
	FornecedorID uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Observacoes  *string
	CreatedAt    time.Time

	Fornecedor *Fornecedor `gorm:"foreignKey:FornecedorID"`
	Items      []CompraItem `gorm:"foreignKey:CompraID;constraint:OnDelete:CASCADE"`
}

type CompraItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompraID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantidade    decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (c *Compra) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (i *CompraItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
