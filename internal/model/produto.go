package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Categoria groups products (bebidas, lanches, ...).
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Descricao *string
	CreatedAt time.Time
}

// Produto is a sellable/stockable item. Quantities are decimal because food
// service sells by weight and volume (KG, L) as well as by unit.
type Produto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nome        string    `gorm:"index;not null"`
	Descricao   *string
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	Unidade     string          `gorm:"not null;default:'UN'"`
	PrecoCusto  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PrecoVenda  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	EstoqueAtual decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	EstoqueMinimo decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	Ativo       bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (c *Categoria) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (p *Produto) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
