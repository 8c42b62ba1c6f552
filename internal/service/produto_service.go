package service

import (
	"context"
	"errors"
	"time"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	Buscar(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) ([]dto.ProdutoResponse, int64, error)
	ListarEstoqueBaixo(ctx context.Context) ([]dto.ProdutoResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error

	// AjustarEstoque applies a signed manual correction and records it in the
	// stock movement history.
	AjustarEstoque(ctx context.Context, id uuid.UUID, req dto.AjustarEstoqueRequest) (*dto.ProdutoResponse, error)
	ListarMovimentosEstoque(ctx context.Context, produtoID *uuid.UUID, limit int) ([]dto.MovimentoEstoqueResponse, error)

	CriarCategoria(ctx context.Context, req dto.CriarCategoriaRequest) (*dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error)
}

type produtoService struct {
	repo repository.ProdutoRepository
}

func NewProdutoService(repo repository.ProdutoRepository) ProdutoService {
	return &produtoService{repo: repo}
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if _, err := s.repo.BuscarPorCodigo(ctx, req.Codigo); err == nil {
		return nil, ErrCodigoJaExiste
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	produto := &model.Produto{
		Codigo:        req.Codigo,
		Nome:          req.Nome,
		Descricao:     req.Descricao,
		Unidade:       req.Unidade,
		PrecoCusto:    req.PrecoCusto,
		PrecoVenda:    req.PrecoVenda,
		EstoqueAtual:  req.EstoqueAtual,
		EstoqueMinimo: req.EstoqueMinimo,
		Ativo:         true,
	}
	if produto.Unidade == "" {
		produto.Unidade = "UN"
	}
	if req.CategoriaID != nil {
		catID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, err
		}
		produto.CategoriaID = &catID
	}

	if err := s.repo.Criar(ctx, produto); err != nil {
		return nil, err
	}
	resp := produtoParaResponse(produto)
	return &resp, nil
}

func (s *produtoService) Buscar(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	produto, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return nil, ErrProdutoNaoEncontrado
	}
	resp := produtoParaResponse(produto)
	return &resp, nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) ([]dto.ProdutoResponse, int64, error) {
	produtos, total, err := s.repo.Listar(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		out = append(out, produtoParaResponse(&produtos[i]))
	}
	return out, total, nil
}

func (s *produtoService) ListarEstoqueBaixo(ctx context.Context) ([]dto.ProdutoResponse, error) {
	produtos, err := s.repo.ListarEstoqueBaixo(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		out = append(out, produtoParaResponse(&produtos[i]))
	}
	return out, nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	produto, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return nil, ErrProdutoNaoEncontrado
	}

	if req.Nome != nil {
		produto.Nome = *req.Nome
	}
	if req.Descricao != nil {
		produto.Descricao = req.Descricao
	}
	if req.CategoriaID != nil {
		catID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, err
		}
		produto.CategoriaID = &catID
	}
	if req.Unidade != nil {
		produto.Unidade = *req.Unidade
	}
	if req.PrecoCusto != nil {
		produto.PrecoCusto = *req.PrecoCusto
	}
	if req.PrecoVenda != nil {
		if !req.PrecoVenda.IsPositive() {
			return nil, ErrValorInvalido
		}
		produto.PrecoVenda = *req.PrecoVenda
	}
	if req.EstoqueMinimo != nil {
		produto.EstoqueMinimo = *req.EstoqueMinimo
	}

	if err := s.repo.Atualizar(ctx, produto); err != nil {
		return nil, err
	}
	resp := produtoParaResponse(produto)
	return &resp, nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.BuscarPorID(ctx, id); err != nil {
		return ErrProdutoNaoEncontrado
	}
	return s.repo.Desativar(ctx, id)
}

func (s *produtoService) Reativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.BuscarPorID(ctx, id); err != nil {
		return ErrProdutoNaoEncontrado
	}
	return s.repo.Reativar(ctx, id)
}

func (s *produtoService) AjustarEstoque(ctx context.Context, id uuid.UUID, req dto.AjustarEstoqueRequest) (*dto.ProdutoResponse, error) {
	if req.Quantidade.IsZero() {
		return nil, ErrValorInvalido
	}

	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		produto, err := s.repo.BuscarPorIDTx(tx, id)
		if err != nil {
			return ErrProdutoNaoEncontrado
		}

		novoEstoque := produto.EstoqueAtual.Add(req.Quantidade)
		if novoEstoque.IsNegative() {
			return ErrEstoqueInsuficiente
		}

		if err := s.repo.AtualizarEstoqueTx(tx, id, req.Quantidade); err != nil {
			return err
		}

		motivo := req.Motivo
		return s.repo.CriarMovimentoEstoqueTx(tx, &model.MovimentoEstoque{
			ProdutoID:       id,
			Tipo:            model.EstoqueAjuste,
			Quantidade:      req.Quantidade,
			Motivo:          &motivo,
			EstoqueAnterior: produto.EstoqueAtual,
			EstoqueNovo:     novoEstoque,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Buscar(ctx, id)
}

func (s *produtoService) ListarMovimentosEstoque(ctx context.Context, produtoID *uuid.UUID, limit int) ([]dto.MovimentoEstoqueResponse, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	movs, err := s.repo.ListarMovimentosEstoque(ctx, produtoID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimentoEstoqueResponse, 0, len(movs))
	for _, m := range movs {
		item := dto.MovimentoEstoqueResponse{
			ID:              m.ID.String(),
			ProdutoID:       m.ProdutoID.String(),
			Tipo:            m.Tipo,
			Quantidade:      m.Quantidade,
			Motivo:          m.Motivo,
			EstoqueAnterior: m.EstoqueAnterior,
			EstoqueNovo:     m.EstoqueNovo,
			CreatedAt:       m.CreatedAt.Format(time.RFC3339),
		}
		if m.Produto != nil {
			item.Produto = m.Produto.Nome
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *produtoService) CriarCategoria(ctx context.Context, req dto.CriarCategoriaRequest) (*dto.CategoriaResponse, error) {
	categoria := &model.Categoria{Nome: req.Nome, Descricao: req.Descricao}
	if err := s.repo.CriarCategoria(ctx, categoria); err != nil {
		return nil, err
	}
	return &dto.CategoriaResponse{
		ID:        categoria.ID.String(),
		Nome:      categoria.Nome,
		Descricao: categoria.Descricao,
	}, nil
}

func (s *produtoService) ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.ListarCategorias(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for _, c := range categorias {
		out = append(out, dto.CategoriaResponse{
			ID:        c.ID.String(),
			Nome:      c.Nome,
			Descricao: c.Descricao,
		})
	}
	return out, nil
}

func produtoParaResponse(p *model.Produto) dto.ProdutoResponse {
	resp := dto.ProdutoResponse{
		ID:            p.ID.String(),
		Codigo:        p.Codigo,
		Nome:          p.Nome,
		Descricao:     p.Descricao,
		Unidade:       p.Unidade,
		PrecoCusto:    p.PrecoCusto,
		PrecoVenda:    p.PrecoVenda,
		EstoqueAtual:  p.EstoqueAtual,
		EstoqueMinimo: p.EstoqueMinimo,
		EstoqueBaixo:  p.EstoqueAtual.LessThanOrEqual(p.EstoqueMinimo),
		Ativo:         p.Ativo,
	}
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nome
	}
	return resp
}
