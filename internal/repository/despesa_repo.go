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

type DespesaRepository interface {
	Criar(ctx context.Context, d *model.Despesa) error
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Despesa, error)
	Listar(ctx context.Context, filter dto.DespesaFilter) ([]model.Despesa, int64, error)
	Atualizar(ctx context.Context, d *model.Despesa) error
	ProximoNumero(ctx context.Context) (string, error)
	Resumo(ctx context.Context, inicio, fim *time.Time) (int64, decimal.Decimal, error)
}

type despesaRepo struct{ db *gorm.DB }

func NewDespesaRepository(db *gorm.DB) DespesaRepository { return &despesaRepo{db: db} }

func (r *despesaRepo) Criar(ctx context.Context, d *model.Despesa) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *despesaRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Despesa, error) {
	var d model.Despesa
	err := r.db.WithContext(ctx).Preload("Fornecedor").First(&d, "id = ?", id).Error
	return &d, err
}

func (r *despesaRepo) Listar(ctx context.Context, filter dto.DespesaFilter) ([]model.Despesa, int64, error) {
	var despesas []model.Despesa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Despesa{})
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Pendentes {
		q = q.Where("paga = ?", false)
	}
	if filter.Inicio != "" {
		if t, err := time.Parse("2006-01-02", filter.Inicio); err == nil {
			q = q.Where("data_despesa >= ?", t)
		}
	}
	if filter.Fim != "" {
		if t, err := time.Parse("2006-01-02", filter.Fim); err == nil {
			q = q.Where("data_despesa < ?", t.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Fornecedor").
		Order("data_despesa DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&despesas).Error
	return despesas, total, err
}

func (r *despesaRepo) Atualizar(ctx context.Context, d *model.Despesa) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *despesaRepo) ProximoNumero(ctx context.Context) (string, error) {
	hoje := time.Now().Format("20060102")
	prefixo := "DP" + hoje

	var ultima model.Despesa
	err := r.db.WithContext(ctx).Where("numero LIKE ?", prefixo+"%").Order("numero DESC").First(&ultima).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Sprintf("%s%04d", prefixo, 1), nil
	}
	if err != nil {
		return "", err
	}

	var seq int
	if _, err := fmt.Sscanf(ultima.Numero[len(prefixo):], "%d", &seq); err != nil {
		return "", fmt.Errorf("número de despesa malformado %q: %w", ultima.Numero, err)
	}
	return fmt.Sprintf("%s%04d", prefixo, seq+1), nil
}

func (r *despesaRepo) Resumo(ctx context.Context, inicio, fim *time.Time) (int64, decimal.Decimal, error) {
	type linha struct {
		Quantidade int64
		Total      decimal.Decimal
	}
	var l linha
	q := r.db.WithContext(ctx).Model(&model.Despesa{}).
		Select("COUNT(id) AS quantidade, COALESCE(SUM(valor), 0) AS total")
	if inicio != nil {
		q = q.Where("data_despesa >= ?", *inicio)
	}
	if fim != nil {
		q = q.Where("data_despesa < ?", *fim)
	}
	err := q.Scan(&l).Error
	return l.Quantidade, l.Total, err
}
