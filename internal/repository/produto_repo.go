package repository

import (
	"context"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProdutoRepository defines the data access contract for products, categories
// and the stock movement history. Services depend on this interface, not on
// the concrete GORM implementation, enabling unit testing via in-memory fakes.
type ProdutoRepository interface {
	Criar(ctx context.Context, p *model.Produto) error
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	BuscarPorCodigo(ctx context.Context, codigo string) (*model.Produto, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
	ListarEstoqueBaixo(ctx context.Context) ([]model.Produto, error)
	Atualizar(ctx context.Context, p *model.Produto) error
	Desativar(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	BuscarPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Produto, error)
	AtualizarEstoqueTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	CriarMovimentoEstoqueTx(tx *gorm.DB, m *model.MovimentoEstoque) error

	ListarMovimentosEstoque(ctx context.Context, produtoID *uuid.UUID, limit int) ([]model.MovimentoEstoque, error)

	// Categorias
	CriarCategoria(ctx context.Context, c *model.Categoria) error
	ListarCategorias(ctx context.Context) ([]model.Categoria, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Criar(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Preload("Categoria").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *produtoRepo) BuscarPorCodigo(ctx context.Context, codigo string) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error
	return &p, err
}

func (r *produtoRepo) Listar(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{})

	switch filter.Ativo {
	case "false":
		q = q.Where("ativo = ?", false)
	case "all":
		// no filter
	default:
		q = q.Where("ativo = ?", true)
	}
	if filter.Busca != "" {
		busca := "%" + filter.Busca + "%"
		q = q.Where("nome LIKE ? OR codigo LIKE ?", busca, busca)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		q = q.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}
	err := q.Preload("Categoria").Order("nome ASC").Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) ListarEstoqueBaixo(ctx context.Context) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).
		Where("estoque_atual <= estoque_minimo AND ativo = ?", true).
		Order("nome ASC").
		Find(&produtos).Error
	return produtos, err
}

func (r *produtoRepo) Atualizar(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) Desativar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", false).Error
}

func (r *produtoRepo) Reativar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", true).Error
}

func (r *produtoRepo) BuscarPorIDTx(tx *gorm.DB, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *produtoRepo) AtualizarEstoqueTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Produto{}).Where("id = ?", id).
		Update("estoque_atual", gorm.Expr("estoque_atual + ?", delta)).Error
}

func (r *produtoRepo) CriarMovimentoEstoqueTx(tx *gorm.DB, m *model.MovimentoEstoque) error {
	return tx.Create(m).Error
}

func (r *produtoRepo) ListarMovimentosEstoque(ctx context.Context, produtoID *uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	var movs []model.MovimentoEstoque
	q := r.db.WithContext(ctx).Preload("Produto").Order("created_at DESC").Limit(limit)
	if produtoID != nil {
		q = q.Where("produto_id = ?", *produtoID)
	}
	err := q.Find(&movs).Error
	return movs, err
}

func (r *produtoRepo) CriarCategoria(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *produtoRepo) ListarCategorias(ctx context.Context) ([]model.Categoria, error) {
	var categorias []model.Categoria
	err := r.db.WithContext(ctx).Order("nome ASC").Find(&categorias).Error
	return categorias, err
}

func (r *produtoRepo) DB() *gorm.DB { return r.db }
