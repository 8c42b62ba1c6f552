package service

import (
	"context"
	"time"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraService interface {
	// Registrar records a supplier purchase: stock goes up, the product cost
	// price is refreshed to the latest paid price.
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	Buscar(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, limit int) ([]dto.CompraResponse, error)

	CriarFornecedor(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error)
	ListarFornecedores(ctx context.Context) ([]dto.FornecedorResponse, error)
}

type compraService struct {
	compras      repository.CompraRepository
	produtos     repository.ProdutoRepository
	fornecedores repository.FornecedorRepository
}

func NewCompraService(compras repository.CompraRepository, produtos repository.ProdutoRepository, fornecedores repository.FornecedorRepository) CompraService {
	return &compraService{compras: compras, produtos: produtos, fornecedores: fornecedores}
}

func (s *compraService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	fornecedorID, err := uuid.Parse(req.FornecedorID)
	if err != nil {
		return nil, ErrFornecedorNaoEncontrado
	}
	if _, err := s.fornecedores.BuscarPorID(ctx, fornecedorID); err != nil {
		return nil, ErrFornecedorNaoEncontrado
	}

	compraID := uuid.New()
	var compra *model.Compra

	err = s.compras.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		numero, err := s.compras.ProximoNumero(tx)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]model.CompraItem, 0, len(req.Items))
		refTipo := "compra"

		for _, item := range req.Items {
			produtoID, err := uuid.Parse(item.ProdutoID)
			if err != nil {
				return ErrProdutoNaoEncontrado
			}
			produto, err := s.produtos.BuscarPorIDTx(tx, produtoID)
			if err != nil {
				return ErrProdutoNaoEncontrado
			}

			subtotal := item.PrecoUnitario.Mul(item.Quantidade).Round(2)
			total = total.Add(subtotal)
			items = append(items, model.CompraItem{
				ProdutoID:     produto.ID,
				Quantidade:    item.Quantidade,
				PrecoUnitario: item.PrecoUnitario,
				Subtotal:      subtotal,
			})

			if err := s.produtos.AtualizarEstoqueTx(tx, produto.ID, item.Quantidade); err != nil {
				return err
			}
			refID := compraID
			if err := s.produtos.CriarMovimentoEstoqueTx(tx, &model.MovimentoEstoque{
				ProdutoID:       produto.ID,
				Tipo:            model.EstoqueEntrada,
				Quantidade:      item.Quantidade,
				ReferenciaID:    &refID,
				ReferenciaTipo:  &refTipo,
				EstoqueAnterior: produto.EstoqueAtual,
				EstoqueNovo:     produto.EstoqueAtual.Add(item.Quantidade),
			}); err != nil {
				return err
			}

			// Cost price tracks the latest purchase.
			if !produto.PrecoCusto.Equal(item.PrecoUnitario) {
				if err := tx.Model(&model.Produto{}).Where("id = ?", produto.ID).
					Update("preco_custo", item.PrecoUnitario).Error; err != nil {
					return err
				}
			}
		}

		compra = &model.Compra{
			ID:           compraID,
			Numero:       numero,
			FornecedorID: fornecedorID,
			UsuarioID:    usuarioID,
			Total:        total,
			Observacoes:  req.Observacoes,
			Items:        items,
		}
		return s.compras.CriarTx(tx, compra)
	})
	if err != nil {
		return nil, err
	}

	return s.Buscar(ctx, compraID)
}

func (s *compraService) Buscar(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.compras.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := compraParaResponse(compra)
	return &resp, nil
}

func (s *compraService) Listar(ctx context.Context, limit int) ([]dto.CompraResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	compras, err := s.compras.Listar(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		out = append(out, compraParaResponse(&compras[i]))
	}
	return out, nil
}

func (s *compraService) CriarFornecedor(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error) {
	fornecedor := &model.Fornecedor{
		Nome:     req.Nome,
		CNPJ:     req.CNPJ,
		Email:    req.Email,
		Telefone: req.Telefone,
		Endereco: req.Endereco,
	}
	if err := s.fornecedores.Criar(ctx, fornecedor); err != nil {
		return nil, err
	}
	resp := fornecedorParaResponse(fornecedor)
	return &resp, nil
}

func (s *compraService) ListarFornecedores(ctx context.Context) ([]dto.FornecedorResponse, error) {
	fornecedores, err := s.fornecedores.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FornecedorResponse, 0, len(fornecedores))
	for i := range fornecedores {
		out = append(out, fornecedorParaResponse(&fornecedores[i]))
	}
	return out, nil
}

func compraParaResponse(c *model.Compra) dto.CompraResponse {
	items := make([]dto.ItemCompraResponse, 0, len(c.Items))
	for _, item := range c.Items {
		nome := item.ProdutoID.String()
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		items = append(items, dto.ItemCompraResponse{
			Produto:       nome,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      item.Subtotal,
		})
	}
	fornecedor := ""
	if c.Fornecedor != nil {
		fornecedor = c.Fornecedor.Nome
	}
	return dto.CompraResponse{
		ID:         c.ID.String(),
		Numero:     c.Numero,
		Fornecedor: fornecedor,
		Items:      items,
		Total:      c.Total,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

func fornecedorParaResponse(f *model.Fornecedor) dto.FornecedorResponse {
	return dto.FornecedorResponse{
		ID:       f.ID.String(),
		Nome:     f.Nome,
		CNPJ:     f.CNPJ,
		Email:    f.Email,
		Telefone: f.Telefone,
		Endereco: f.Endereco,
	}
}
