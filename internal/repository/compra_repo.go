package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/omangatech-hub/chefconta/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	CriarTx(tx *gorm.DB, c *model.Compra) error
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	Listar(ctx context.Context, limit int) ([]model.Compra, error)
	ProximoNumero(tx *gorm.DB) (string, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) CriarTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Fornecedor").Preload("Items").Preload("Items.Produto").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *compraRepo) Listar(ctx context.Context, limit int) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Preload("Fornecedor").Preload("Items").Preload("Items.Produto").
		Order("created_at DESC").Limit(limit).Find(&compras).Error
	return compras, err
}

func (r *compraRepo) ProximoNumero(tx *gorm.DB) (string, error) {
	hoje := time.Now().Format("20060102")
	prefixo := "CP" + hoje

	var ultima model.Compra
	err := tx.Where("numero LIKE ?", prefixo+"%").Order("numero DESC").First(&ultima).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Sprintf("%s%04d", prefixo, 1), nil
	}
	if err != nil {
		return "", err
	}

	var seq int
	if _, err := fmt.Sscanf(ultima.Numero[len(prefixo):], "%d", &seq); err != nil {
		return "", fmt.Errorf("número de compra malformado %q: %w", ultima.Numero, err)
	}
	return fmt.Sprintf("%s%04d", prefixo, seq+1), nil
}

func (r *compraRepo) DB() *gorm.DB { return r.db }
