package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaRepository interface {
	CriarTx(tx *gorm.DB, v *model.Venda) error
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	Listar(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)
	// ProximoNumero generates the next VD<yyyymmdd><seq> number inside tx.
	ProximoNumero(tx *gorm.DB) (string, error)
	MarcarCanceladaTx(tx *gorm.DB, id uuid.UUID) error
	Resumo(ctx context.Context, inicio, fim *time.Time) (int64, decimal.Decimal, error)
	DB() *gorm.DB
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) CriarTx(tx *gorm.DB, v *model.Venda) error {
	return tx.Create(v).Error
}

func (r *vendaRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).Preload("Items").Preload("Items.Produto").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *vendaRepo) Listar(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venda{})
	if !filter.IncluirCanceladas {
		q = q.Where("cancelada = ?", false)
	}
	if filter.Inicio != "" {
		if t, err := time.Parse("2006-01-02", filter.Inicio); err == nil {
			q = q.Where("created_at >= ?", t)
		}
	}
	if filter.Fim != "" {
		if t, err := time.Parse("2006-01-02", filter.Fim); err == nil {
			q = q.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").Preload("Items.Produto").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&vendas).Error
	return vendas, total, err
}

// ProximoNumero scans today's last sale number and increments its 4-digit
// suffix. It must run inside the sale transaction so two concurrent sales
// cannot claim the same number.
func (r *vendaRepo) ProximoNumero(tx *gorm.DB) (string, error) {
	hoje := time.Now().Format("20060102")
	prefixo := "VD" + hoje

	var ultima model.Venda
	err := tx.Where("numero LIKE ?", prefixo+"%").Order("numero DESC").First(&ultima).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Sprintf("%s%04d", prefixo, 1), nil
	}
	if err != nil {
		return "", err
	}

	var seq int
	if _, err := fmt.Sscanf(ultima.Numero[len(prefixo):], "%d", &seq); err != nil {
		return "", fmt.Errorf("número de venda malformado %q: %w", ultima.Numero, err)
	}
	return fmt.Sprintf("%s%04d", prefixo, seq+1), nil
}

func (r *vendaRepo) MarcarCanceladaTx(tx *gorm.DB, id uuid.UUID) error {
	agora := time.Now()
	return tx.Model(&model.Venda{}).Where("id = ?", id).
		Updates(map[string]interface{}{"cancelada": true, "cancelada_em": agora}).Error
}

func (r *vendaRepo) Resumo(ctx context.Context, inicio, fim *time.Time) (int64, decimal.Decimal, error) {
	type linha struct {
		Quantidade int64
		Receita    decimal.Decimal
	}
	var l linha
	q := r.db.WithContext(ctx).Model(&model.Venda{}).
		Select("COUNT(id) AS quantidade, COALESCE(SUM(total), 0) AS receita").
		Where("cancelada = ?", false)
	if inicio != nil {
		q = q.Where("created_at >= ?", *inicio)
	}
	if fim != nil {
		q = q.Where("created_at < ?", *fim)
	}
	err := q.Scan(&l).Error
	return l.Quantidade, l.Receita, err
}

func (r *vendaRepo) DB() *gorm.DB { return r.db }
