package service

import (
	"context"
	"time"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/google/uuid"
)

type DespesaService interface {
	Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CriarDespesaRequest) (*dto.DespesaResponse, error)
	Buscar(ctx context.Context, id uuid.UUID) (*dto.DespesaResponse, error)
	Listar(ctx context.Context, filter dto.DespesaFilter) ([]dto.DespesaResponse, int64, error)
	// MarcarPaga settles a pending expense with the given payment method.
	MarcarPaga(ctx context.Context, id uuid.UUID, metodoPagamento string) (*dto.DespesaResponse, error)
	Resumo(ctx context.Context, inicio, fim *time.Time) (*dto.ResumoDespesasResponse, error)
}

type despesaService struct {
	despesas     repository.DespesaRepository
	fornecedores repository.FornecedorRepository
}

func NewDespesaService(despesas repository.DespesaRepository, fornecedores repository.FornecedorRepository) DespesaService {
	return &despesaService{despesas: despesas, fornecedores: fornecedores}
}

func (s *despesaService) Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CriarDespesaRequest) (*dto.DespesaResponse, error) {
	numero, err := s.despesas.ProximoNumero(ctx)
	if err != nil {
		return nil, err
	}

	despesa := &model.Despesa{
		Numero:          numero,
		UsuarioID:       usuarioID,
		Tipo:            req.Tipo,
		Descricao:       req.Descricao,
		Valor:           req.Valor,
		DataDespesa:     time.Now(),
		Paga:            req.Paga,
		MetodoPagamento: req.MetodoPagamento,
		Observacoes:     req.Observacoes,
	}

	if req.FornecedorID != nil {
		fornecedorID, err := uuid.Parse(*req.FornecedorID)
		if err != nil {
			return nil, ErrFornecedorNaoEncontrado
		}
		if _, err := s.fornecedores.BuscarPorID(ctx, fornecedorID); err != nil {
			return nil, ErrFornecedorNaoEncontrado
		}
		despesa.FornecedorID = &fornecedorID
	}
	if req.DataDespesa != nil {
		if t, err := time.Parse("2006-01-02", *req.DataDespesa); err == nil {
			despesa.DataDespesa = t
		}
	}
	if req.Vencimento != nil {
		if t, err := time.Parse("2006-01-02", *req.Vencimento); err == nil {
			despesa.Vencimento = &t
		}
	}
	if req.Paga {
		agora := time.Now()
		despesa.PagaEm = &agora
	}

	if err := s.despesas.Criar(ctx, despesa); err != nil {
		return nil, err
	}
	return s.Buscar(ctx, despesa.ID)
}

func (s *despesaService) Buscar(ctx context.Context, id uuid.UUID) (*dto.DespesaResponse, error) {
	despesa, err := s.despesas.BuscarPorID(ctx, id)
	if err != nil {
		return nil, ErrDespesaNaoEncontrada
	}
	resp := despesaParaResponse(despesa)
	return &resp, nil
}

func (s *despesaService) Listar(ctx context.Context, filter dto.DespesaFilter) ([]dto.DespesaResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}

	despesas, total, err := s.despesas.Listar(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.DespesaResponse, 0, len(despesas))
	for i := range despesas {
		out = append(out, despesaParaResponse(&despesas[i]))
	}
	return out, total, nil
}

func (s *despesaService) MarcarPaga(ctx context.Context, id uuid.UUID, metodoPagamento string) (*dto.DespesaResponse, error) {
	despesa, err := s.despesas.BuscarPorID(ctx, id)
	if err != nil {
		return nil, ErrDespesaNaoEncontrada
	}
	if despesa.Paga {
		return nil, ErrDespesaJaPaga
	}

	agora := time.Now()
	despesa.Paga = true
	despesa.PagaEm = &agora
	if metodoPagamento != "" {
		despesa.MetodoPagamento = &metodoPagamento
	}
	if err := s.despesas.Atualizar(ctx, despesa); err != nil {
		return nil, err
	}
	resp := despesaParaResponse(despesa)
	return &resp, nil
}

func (s *despesaService) Resumo(ctx context.Context, inicio, fim *time.Time) (*dto.ResumoDespesasResponse, error) {
	quantidade, total, err := s.despesas.Resumo(ctx, inicio, fim)
	if err != nil {
		return nil, err
	}
	return &dto.ResumoDespesasResponse{QuantidadeDespesas: quantidade, TotalDespesas: total}, nil
}

func despesaParaResponse(d *model.Despesa) dto.DespesaResponse {
	resp := dto.DespesaResponse{
		ID:              d.ID.String(),
		Numero:          d.Numero,
		Tipo:            d.Tipo,
		Descricao:       d.Descricao,
		Valor:           d.Valor,
		DataDespesa:     d.DataDespesa.Format("2006-01-02"),
		Paga:            d.Paga,
		MetodoPagamento: d.MetodoPagamento,
		CreatedAt:       d.CreatedAt.Format(time.RFC3339),
	}
	if d.Fornecedor != nil {
		resp.Fornecedor = &d.Fornecedor.Nome
	}
	if d.Vencimento != nil {
		v := d.Vencimento.Format("2006-01-02")
		resp.Vencimento = &v
	}
	if d.PagaEm != nil {
		p := d.PagaEm.Format(time.RFC3339)
		resp.PagaEm = &p
	}
	return resp
}
