package service

import (
	"context"
	"fmt"
	"time"

	"github.com/omangatech-hub/chefconta/internal/dto"
	"github.com/omangatech-hub/chefconta/internal/model"
	"github.com/omangatech-hub/chefconta/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaService interface {
	// Registrar creates the sale, decrements stock and posts the inflow on
	// the open caixa. The sale itself never fails because of the caixa: if
	// no caixa is open the response carries an Aviso instead.
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	Buscar(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
	// Cancelar flags the sale and restores stock. It does not post an inverse
	// caixa movement; discrepancies surface at closing time as quebra de caixa.
	Cancelar(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	Resumo(ctx context.Context, inicio, fim *time.Time) (*dto.ResumoVendasResponse, error)
}

type vendaService struct {
	vendas   repository.VendaRepository
	produtos repository.ProdutoRepository
	caixa    CaixaService
}

func NewVendaService(vendas repository.VendaRepository, produtos repository.ProdutoRepository, caixa CaixaService) VendaService {
	return &vendaService{vendas: vendas, produtos: produtos, caixa: caixa}
}

func (s *vendaService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	var venda *model.Venda

	// The id is assigned before the insert so the stock movements created in
	// the same transaction can reference it.
	vendaID := uuid.New()

	err := s.vendas.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		numero, err := s.vendas.ProximoNumero(tx)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		items := make([]model.VendaItem, 0, len(req.Items))
		refTipo := "venda"

		for _, item := range req.Items {
			produtoID, err := uuid.Parse(item.ProdutoID)
			if err != nil {
				return ErrProdutoNaoEncontrado
			}
			produto, err := s.produtos.BuscarPorIDTx(tx, produtoID)
			if err != nil {
				return ErrProdutoNaoEncontrado
			}
			if !produto.Ativo {
				return ErrProdutoInativo
			}
			if produto.EstoqueAtual.LessThan(item.Quantidade) {
				return fmt.Errorf("%w: %s (disponível %s)", ErrEstoqueInsuficiente,
					produto.Nome, produto.EstoqueAtual.String())
			}

			itemSubtotal := produto.PrecoVenda.Mul(item.Quantidade).Round(2)
			subtotal = subtotal.Add(itemSubtotal)
			items = append(items, model.VendaItem{
				ProdutoID:     produto.ID,
				Quantidade:    item.Quantidade,
				PrecoUnitario: produto.PrecoVenda,
				Subtotal:      itemSubtotal,
			})

			if err := s.produtos.AtualizarEstoqueTx(tx, produto.ID, item.Quantidade.Neg()); err != nil {
				return err
			}
			refID := vendaID
			if err := s.produtos.CriarMovimentoEstoqueTx(tx, &model.MovimentoEstoque{
				ProdutoID:       produto.ID,
				Tipo:            model.EstoqueSaida,
				Quantidade:      item.Quantidade,
				ReferenciaID:    &refID,
				ReferenciaTipo:  &refTipo,
				EstoqueAnterior: produto.EstoqueAtual,
				EstoqueNovo:     produto.EstoqueAtual.Sub(item.Quantidade),
			}); err != nil {
				return err
			}
		}

		total := subtotal.Sub(req.Desconto)
		if total.IsNegative() {
			return ErrValorInvalido
		}

		venda = &model.Venda{
			ID:              vendaID,
			Numero:          numero,
			Canal:           req.Canal,
			UsuarioID:       usuarioID,
			Subtotal:        subtotal,
			Desconto:        req.Desconto,
			Total:           total,
			MetodoPagamento: req.MetodoPagamento,
			Observacoes:     req.Observacoes,
			Items:           items,
		}
		return s.vendas.CriarTx(tx, venda)
	})
	if err != nil {
		return nil, err
	}

	// The caixa movement is posted after the sale commits: a till problem
	// must never roll back a completed sale.
	aviso := ""
	_, aviso, err = s.caixa.RegistrarVenda(ctx, venda.ID, venda.Numero, venda.Canal, venda.MetodoPagamento, venda.Total)
	if err != nil {
		log.Error().Err(err).Str("venda", venda.Numero).Msg("falha ao registrar venda no caixa")
		aviso = "venda concluída, mas o registro no caixa falhou"
	}

	completa, err := s.vendas.BuscarPorID(ctx, venda.ID)
	if err != nil {
		return nil, err
	}
	resp := vendaParaResponse(completa)
	resp.Aviso = aviso
	return &resp, nil
}

func (s *vendaService) Buscar(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.vendas.BuscarPorID(ctx, id)
	if err != nil {
		return nil, ErrVendaNaoEncontrada
	}
	resp := vendaParaResponse(venda)
	return &resp, nil
}

func (s *vendaService) Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}

	vendas, total, err := s.vendas.Listar(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		out = append(out, vendaParaResponse(&vendas[i]))
	}
	return &dto.VendaListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *vendaService) Cancelar(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.vendas.BuscarPorID(ctx, id)
	if err != nil {
		return nil, ErrVendaNaoEncontrada
	}
	if venda.Cancelada {
		return nil, ErrVendaJaCancelada
	}

	err = s.vendas.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refTipo := "cancelamento_venda"
		motivo := "Cancelamento da venda " + venda.Numero

		for _, item := range venda.Items {
			produto, err := s.produtos.BuscarPorIDTx(tx, item.ProdutoID)
			if err != nil {
				return err
			}
			if err := s.produtos.AtualizarEstoqueTx(tx, item.ProdutoID, item.Quantidade); err != nil {
				return err
			}
			refID := venda.ID
			if err := s.produtos.CriarMovimentoEstoqueTx(tx, &model.MovimentoEstoque{
				ProdutoID:       item.ProdutoID,
				Tipo:            model.EstoqueEntrada,
				Quantidade:      item.Quantidade,
				Motivo:          &motivo,
				ReferenciaID:    &refID,
				ReferenciaTipo:  &refTipo,
				EstoqueAnterior: produto.EstoqueAtual,
				EstoqueNovo:     produto.EstoqueAtual.Add(item.Quantidade),
			}); err != nil {
				return err
			}
		}
		return s.vendas.MarcarCanceladaTx(tx, venda.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.Buscar(ctx, id)
}

func (s *vendaService) Resumo(ctx context.Context, inicio, fim *time.Time) (*dto.ResumoVendasResponse, error) {
	quantidade, receita, err := s.vendas.Resumo(ctx, inicio, fim)
	if err != nil {
		return nil, err
	}
	return &dto.ResumoVendasResponse{QuantidadeVendas: quantidade, ReceitaTotal: receita}, nil
}

func vendaParaResponse(v *model.Venda) dto.VendaResponse {
	items := make([]dto.ItemVendaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		nome := item.ProdutoID.String()
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		items = append(items, dto.ItemVendaResponse{
			Produto:       nome,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      item.Subtotal,
		})
	}
	return dto.VendaResponse{
		ID:              v.ID.String(),
		Numero:          v.Numero,
		Canal:           v.Canal,
		Items:           items,
		Subtotal:        v.Subtotal,
		Desconto:        v.Desconto,
		Total:           v.Total,
		MetodoPagamento: v.MetodoPagamento,
		Cancelada:       v.Cancelada,
		CreatedAt:       v.CreatedAt.Format(time.RFC3339),
	}
}
