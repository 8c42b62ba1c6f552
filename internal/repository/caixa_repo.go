package repository

import (
	"context"
	"errors"

	"github.com/omangatech-hub/chefconta/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaixaRepository is the persistence contract for till sessions and their
// movement ledger. Movements are append-only: there is deliberately no
// update or single-delete method for them.
type CaixaRepository interface {
	// CriarComAbertura persists the caixa and its synthetic opening movement
	// (nil when saldo inicial is zero) in one transaction.
	CriarComAbertura(ctx context.Context, c *model.Caixa, abertura *model.MovimentoCaixa) error
	// BuscarAberto returns the single open caixa, or (nil, nil) when none is open.
	BuscarAberto(ctx context.Context) (*model.Caixa, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	// Fechar persists the frozen closing state of the caixa.
	Fechar(ctx context.Context, c *model.Caixa) error
	CriarMovimento(ctx context.Context, m *model.MovimentoCaixa) error
	CriarMovimentoTx(tx *gorm.DB, m *model.MovimentoCaixa) error
	ListarMovimentos(ctx context.Context, caixaID uuid.UUID) ([]model.MovimentoCaixa, error)
	Listar(ctx context.Context, limit int) ([]model.Caixa, error)
	// Excluir removes a caixa and all its movements (administrative purge).
	Excluir(ctx context.Context, id uuid.UUID) error
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) CriarComAbertura(ctx context.Context, c *model.Caixa, abertura *model.MovimentoCaixa) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if abertura == nil {
			return nil
		}
		abertura.CaixaID = c.ID
		return tx.Create(abertura).Error
	})
}

func (r *caixaRepo) BuscarAberto(ctx context.Context) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).Where("aberto = ?", true).Order("aberto_em DESC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) Fechar(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *caixaRepo) CriarMovimento(ctx context.Context, m *model.MovimentoCaixa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *caixaRepo) CriarMovimentoTx(tx *gorm.DB, m *model.MovimentoCaixa) error {
	return tx.Create(m).Error
}

func (r *caixaRepo) ListarMovimentos(ctx context.Context, caixaID uuid.UUID) ([]model.MovimentoCaixa, error) {
	var movs []model.MovimentoCaixa
	err := r.db.WithContext(ctx).Where("caixa_id = ?", caixaID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) Listar(ctx context.Context, limit int) ([]model.Caixa, error) {
	var caixas []model.Caixa
	err := r.db.WithContext(ctx).Order("aberto_em DESC").Limit(limit).Find(&caixas).Error
	return caixas, err
}

func (r *caixaRepo) Excluir(ctx context.Context, id uuid.UUID) error {
	// Movements first: strict ownership, never orphaned rows.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("caixa_id = ?", id).Delete(&model.MovimentoCaixa{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Caixa{}, "id = ?", id).Error
	})
}
